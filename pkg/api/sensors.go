package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// HistoryQuery filters GET /metrics/sensors. Zero fields are omitted.
type HistoryQuery struct {
	From  time.Time
	To    time.Time
	Limit int
}

// SensorCurrent fetches the latest reading of both zones.
func (c *Client) SensorCurrent(ctx context.Context) (*SensorCurrent, error) {
	var out SensorCurrent
	if err := c.do(ctx, http.MethodGet, "/sensors/current", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SensorHistory fetches stored samples in the backend's order (newest first).
func (c *Client) SensorHistory(ctx context.Context, q HistoryQuery) ([]SensorRecord, error) {
	var out []SensorRecord
	err := c.do(ctx, http.MethodGet, "/metrics/sensors", func(r *resty.Request) {
		if !q.From.IsZero() {
			r.SetQueryParam("from", timeParam(q.From))
		}
		if !q.To.IsZero() {
			r.SetQueryParam("to", timeParam(q.To))
		}
		if q.Limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(q.Limit))
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
