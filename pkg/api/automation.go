package api

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Config fetches the automation thresholds.
func (c *Client) Config(ctx context.Context) (*AutomationConfig, error) {
	var out AutomationConfig
	if err := c.do(ctx, http.MethodGet, "/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateConfig replaces the automation thresholds and returns what the
// backend stored.
func (c *Client) UpdateConfig(ctx context.Context, cfg AutomationConfig) (*AutomationConfig, error) {
	var out AutomationConfig
	err := c.do(ctx, http.MethodPut, "/config", func(r *resty.Request) {
		r.SetBody(cfg)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Schedules lists every relay schedule.
func (c *Client) Schedules(ctx context.Context) ([]Schedule, error) {
	var out []Schedule
	if err := c.do(ctx, http.MethodGet, "/schedules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSchedule stores a new schedule and returns it with its id.
func (c *Client) CreateSchedule(ctx context.Context, req ScheduleRequest) (*Schedule, error) {
	var out Schedule
	err := c.do(ctx, http.MethodPost, "/schedules", func(r *resty.Request) {
		r.SetBody(req)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSchedule replaces the schedule with the given id.
func (c *Client) UpdateSchedule(ctx context.Context, id string, req ScheduleRequest) (*Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodPut, "/schedules/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id).SetBody(req)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSchedule removes the schedule with the given id.
func (c *Client) DeleteSchedule(ctx context.Context, id string) (*Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodDelete, "/schedules/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
