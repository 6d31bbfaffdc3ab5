package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Error is returned for any non-2xx response from the backend.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newError(resp *resty.Response) *Error {
	e := &Error{Status: resp.StatusCode(), Code: resp.StatusCode()}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		e.Message = body.Message
		if body.Code != 0 {
			e.Code = body.Code
		}
		return e
	}

	e.Message = strings.TrimSpace(string(resp.Body()))
	if e.Message == "" {
		e.Message = http.StatusText(e.Status)
	}
	return e
}

// Message returns the backend's message when err carries one, otherwise
// fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
