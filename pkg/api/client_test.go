package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newServer(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL)
}

func TestNew_AppendsBasePath(t *testing.T) {
	assert.Equal(t, "http://host:8080/api/v1", api.New("http://host:8080").BaseURL())
	assert.Equal(t, "http://host:8080/api/v1", api.New("http://host:8080/api/v1/").BaseURL())
}

func TestSensorCurrent(t *testing.T) {
	ts := time.Date(2026, 2, 26, 15, 30, 0, 0, time.UTC)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/sensors/current", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"warm_temp": 32.3, "warm_hum": 58.5, "cold_temp": 24.8, "cold_hum": 65.2,
			"timestamp": ts, "mode": "AUTO",
		})
	})

	got, err := c.SensorCurrent(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 32.3, got.WarmTemp, 1e-9)
	assert.InDelta(t, 65.2, got.ColdHum, 1e-9)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, api.ModeAuto, got.Mode)
}

func TestSensorHistory_Query(t *testing.T) {
	from := time.Date(2026, 2, 26, 10, 0, 0, 0, time.UTC)
	to := from.Add(6 * time.Hour)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/metrics/sensors", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2026-02-26T10:00:00Z", q.Get("from"))
		assert.Equal(t, "2026-02-26T16:00:00Z", q.Get("to"))
		assert.Equal(t, "500", q.Get("limit"))
		writeJSON(t, w, http.StatusOK, []map[string]any{{"warm_temp": 30.0}, {"warm_temp": 31.0}})
	})

	got, err := c.SensorHistory(context.Background(), api.HistoryQuery{From: from, To: to, Limit: 500})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 31.0, got[1].WarmTemp, 1e-9)
}

func TestSensorHistory_OmitsZeroFilters(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(t, w, http.StatusOK, []any{})
	})

	got, err := c.SensorHistory(context.Background(), api.HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestToggleRelay(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/relays/fogger/toggle", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"state":true}`, string(body))
		writeJSON(t, w, http.StatusOK, map[string]string{"msg": "fogger on"})
	})

	ack, err := c.ToggleRelay(context.Background(), api.RelayFogger, true)
	require.NoError(t, err)
	assert.Equal(t, "fogger on", ack.Msg)
}

func TestToggleRelay_ForbiddenOutsideManual(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]any{"code": 403, "message": "switch to MANUAL first"})
	})

	_, err := c.ToggleRelay(context.Background(), api.RelayLight, false)
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, 403, apiErr.Code)
	assert.Equal(t, "switch to MANUAL first", apiErr.Message)
	assert.Equal(t, "switch to MANUAL first", api.Message(err, "toggle failed"))
	assert.True(t, api.IsStatus(err, http.StatusForbidden))
}

func TestError_PlainTextBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Relays(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad gateway", apiErr.Message)
	assert.EqualError(t, err, "api: status 502: bad gateway")
}

func TestMessage_Fallback(t *testing.T) {
	assert.Equal(t, "fallback", api.Message(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "fallback", api.Message(nil, "fallback"))
}

func TestTransportError_Wrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.New(url).SystemStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api: GET /system/status")

	var apiErr *api.Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		writeJSON(t, w, http.StatusOK, map[string]bool{})
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Relays(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := api.AutomationConfig{
		WarmTargetMin: 31.5, WarmTargetMax: 33, ColdMaxThreshold: 26.5, EmergencyMaxThreshold: 35,
		HumidityMin: 50, HumidityMax: 65, HysteresisTemp: 0.5, HysteresisHum: 2,
	}
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/config", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, cfg)
		case http.MethodPut:
			var in api.AutomationConfig
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(t, w, http.StatusOK, in)
		}
	})

	got, err := c.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)

	cfg.HumidityMax = 70
	saved, err := c.UpdateConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, saved.HumidityMax, 1e-9)
}

func TestSetMode(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/system/mode", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"mode":"MANUAL"}`, string(body))
		writeJSON(t, w, http.StatusOK, map[string]string{"mode": "MANUAL"})
	})

	require.NoError(t, c.SetMode(context.Background(), api.ModeManual))
}

func TestSchedules(t *testing.T) {
	active := true
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/schedules":
			writeJSON(t, w, http.StatusOK, []api.Schedule{{ID: "a", RelayID: api.RelayLight}})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/schedules":
			var in api.ScheduleRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			writeJSON(t, w, http.StatusCreated, api.Schedule{
				ID: "b", RelayID: in.RelayID, StartTime: in.StartTime, EndTime: in.EndTime, IsActive: *in.IsActive,
			})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/schedules/b":
			writeJSON(t, w, http.StatusOK, map[string]string{"msg": "updated"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/schedules/b":
			writeJSON(t, w, http.StatusOK, map[string]string{"msg": "deleted"})
		default:
			writeJSON(t, w, http.StatusNotFound, map[string]any{"code": 404, "message": "not found"})
		}
	})
	ctx := context.Background()

	list, err := c.Schedules(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	req := api.ScheduleRequest{RelayID: api.RelayLight, StartTime: "08:00", EndTime: "20:00", IsActive: &active}
	created, err := c.CreateSchedule(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "b", created.ID)
	assert.Equal(t, "08:00", created.StartTime)
	assert.True(t, created.IsActive)

	ack, err := c.UpdateSchedule(ctx, "b", req)
	require.NoError(t, err)
	assert.Equal(t, "updated", ack.Msg)

	ack, err = c.DeleteSchedule(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "deleted", ack.Msg)

	_, err = c.DeleteSchedule(ctx, "missing")
	assert.True(t, api.IsStatus(err, http.StatusNotFound))
}

func TestEnergyReportsAndLogs(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/metrics/energy":
			writeJSON(t, w, http.StatusOK, []map[string]any{{"report_date": "2026-02-26", "total_kwh": 0.42}})
		case "/api/v1/relay-logs":
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			assert.Equal(t, "100", r.URL.Query().Get("offset"))
			writeJSON(t, w, http.StatusOK, []map[string]any{{"id": "x", "relay_id": "heat_mat", "state": true, "reason": "MANUAL_OVERRIDE"}})
		}
	})
	ctx := context.Background()

	reports, err := c.EnergyReports(ctx, api.EnergyQuery{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "2026-02-26", reports[0].Date)

	logs, err := c.RelayLogs(ctx, api.LogQuery{Limit: 50, Offset: 100})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, api.RelayHeatMat, logs[0].RelayID)
	assert.Equal(t, "MANUAL_OVERRIDE", logs[0].Reason)
}

func TestRelayID(t *testing.T) {
	id, ok := api.ParseRelayID("light")
	require.True(t, ok)
	assert.Equal(t, "Light", id.Label())
	assert.Equal(t, "💡", id.Icon())

	_, ok = api.ParseRelayID("pump")
	assert.False(t, ok)

	state := api.RelayState{Fogger: true}
	assert.True(t, state.Get(api.RelayFogger))
	assert.False(t, state.Get(api.RelayHeatMat))
}
