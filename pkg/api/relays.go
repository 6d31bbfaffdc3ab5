package api

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Relays fetches the state of every relay.
func (c *Client) Relays(ctx context.Context) (*RelayState, error) {
	var out RelayState
	if err := c.do(ctx, http.MethodGet, "/relays", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleRelay switches one relay. The backend rejects this outside MANUAL
// mode.
func (c *Client) ToggleRelay(ctx context.Context, id RelayID, on bool) (*Ack, error) {
	var out Ack
	err := c.do(ctx, http.MethodPost, "/relays/{id}/toggle", func(r *resty.Request) {
		r.SetPathParam("id", string(id)).SetBody(toggleRequest{State: on})
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
