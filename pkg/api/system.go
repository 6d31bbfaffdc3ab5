package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// EnergyQuery filters GET /metrics/energy. Zero fields are omitted.
type EnergyQuery struct {
	From time.Time
	To   time.Time
}

// LogQuery pages GET /relay-logs. Zero fields are omitted.
type LogQuery struct {
	Limit  int
	Offset int
}

// SystemStatus fetches uptime, mode and storage health.
func (c *Client) SystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.do(ctx, http.MethodGet, "/system/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMode switches the global automation mode.
func (c *Client) SetMode(ctx context.Context, mode Mode) error {
	return c.do(ctx, http.MethodPost, "/system/mode", func(r *resty.Request) {
		r.SetBody(modeRequest{Mode: mode})
	}, nil)
}

// EnergyReports fetches daily energy consumption.
func (c *Client) EnergyReports(ctx context.Context, q EnergyQuery) ([]EnergyReport, error) {
	var out []EnergyReport
	err := c.do(ctx, http.MethodGet, "/metrics/energy", func(r *resty.Request) {
		if !q.From.IsZero() {
			r.SetQueryParam("from", timeParam(q.From))
		}
		if !q.To.IsZero() {
			r.SetQueryParam("to", timeParam(q.To))
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RelayLogs fetches a page of the relay audit log, newest first.
func (c *Client) RelayLogs(ctx context.Context, q LogQuery) ([]RelayLogEntry, error) {
	var out []RelayLogEntry
	err := c.do(ctx, http.MethodGet, "/relay-logs", func(r *resty.Request) {
		if q.Limit > 0 {
			r.SetQueryParam("limit", strconv.Itoa(q.Limit))
		}
		if q.Offset > 0 {
			r.SetQueryParam("offset", strconv.Itoa(q.Offset))
		}
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
