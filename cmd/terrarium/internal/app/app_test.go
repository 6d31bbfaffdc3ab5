package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/msgs"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/notify"
	"github.com/germanamz/terrarium/pkg/pages"
	"github.com/germanamz/terrarium/pkg/poller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fake controller ---

type controller struct {
	mu    sync.Mutex
	calls []string
}

func (c *controller) record(r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	defer c.mu.Unlock()
	line := r.Method + " " + r.URL.Path
	if body := strings.TrimSpace(string(b)); body != "" {
		line += " " + body
	}
	c.calls = append(c.calls, line)
}

func (c *controller) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (c *controller) handler() http.Handler {
	mux := http.NewServeMux()
	ack := func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, api.Ack{Msg: "ok"})
	}
	mux.HandleFunc("POST /api/v1/system/mode", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, map[string]string{"mode": "MANUAL"})
	})
	mux.HandleFunc("POST /api/v1/relays/{id}/toggle", ack)
	mux.HandleFunc("GET /api/v1/config", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, api.AutomationConfig{WarmTargetMin: 28, WarmTargetMax: 32})
	})
	mux.HandleFunc("PUT /api/v1/config", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.calls = append(c.calls, "PUT /api/v1/config")
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})
	mux.HandleFunc("GET /api/v1/schedules", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, []api.Schedule{{ID: "s1", RelayID: api.RelayFogger, StartTime: "06:00", EndTime: "06:05", IsActive: true}})
	})
	mux.HandleFunc("POST /api/v1/schedules", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.Schedule{ID: "s2", RelayID: api.RelayLight, StartTime: "08:00", EndTime: "20:00", IsActive: true})
	})
	mux.HandleFunc("PUT /api/v1/schedules/{id}", ack)
	mux.HandleFunc("DELETE /api/v1/schedules/{id}", ack)
	mux.HandleFunc("GET /api/v1/metrics/sensors", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, []api.SensorRecord{})
	})
	mux.HandleFunc("GET /api/v1/metrics/energy", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, []api.EnergyReport{})
	})
	mux.HandleFunc("GET /api/v1/relay-logs", func(w http.ResponseWriter, r *http.Request) {
		c.record(r)
		writeJSON(w, []api.RelayLogEntry{
			{ID: "1", RelayID: api.RelayLight, State: true, Reason: "schedule"},
			{ID: "2", RelayID: api.RelayLight, State: false, Reason: "schedule"},
		})
	})
	return mux
}

type noTimer struct{}

func (noTimer) Stop() bool { return true }

func neverFire(time.Duration, func()) notify.Timer { return noTimer{} }

func newTestModel(t *testing.T) (Model, *controller, Services) {
	t.Helper()

	ctrl := &controller{}
	srv := httptest.NewServer(ctrl.handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL)
	emitter := notify.New(notify.Options{AfterFunc: neverFire})
	svc := Services{
		Sync:       poller.New(client, poller.Options{}),
		Notify:     emitter,
		Events:     events.NewBus(),
		Dashboard:  pages.NewDashboard(client, emitter, nil),
		Relays:     pages.NewRelays(client, emitter, nil),
		Automation: pages.NewAutomation(client, emitter, nil),
		History:    pages.NewHistory(client, 0, nil),
		System:     pages.NewSystem(client, 2, nil),
	}

	m := New(context.Background(), svc)
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, ctrl, svc
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes an action command and feeds its result back.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(msgs.ActionDoneMsg)
	require.True(t, ok, "got %T", msg)
	return step(t, m, done)
}

func withMode(t *testing.T, m Model, mode api.Mode) Model {
	t.Helper()
	return step(t, m, msgs.StatusMsg{Data: &api.SystemStatus{Mode: mode}})
}

// --- tests ---

func TestView_BeforeResize(t *testing.T) {
	_, _, svc := newTestModel(t)
	m := New(context.Background(), svc)
	assert.Equal(t, "Loading...", m.View())
}

func TestNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, PageDashboard, m.Page())

	m, cmd := press(t, m, "2")
	assert.Equal(t, PageRelays, m.Page())
	assert.Nil(t, cmd)

	m, _ = press(t, m, "tab")
	assert.Equal(t, PageAutomation, m.Page())

	m, _ = press(t, m, "1")
	m, _ = press(t, m, "shift+tab")
	assert.Equal(t, PageSystem, m.Page())
}

func TestNavigation_LoadsOnFirstVisit(t *testing.T) {
	m, ctrl, svc := newTestModel(t)

	m, cmd := press(t, m, "3")
	m = run(t, m, cmd)
	assert.Contains(t, ctrl.all(), "GET /api/v1/config")
	assert.Contains(t, ctrl.all(), "GET /api/v1/schedules")
	require.NotNil(t, svc.Automation.Config.Get())
	assert.Contains(t, m.View(), "28.0°C – 32.0°C")

	m, _ = press(t, m, "1")
	_, cmd = press(t, m, "3")
	assert.Nil(t, cmd)
}

func TestDashboard_ModeKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m = withMode(t, m, api.ModeAuto)

	_, cmd := press(t, m, "a")
	assert.Nil(t, cmd, "already AUTO")

	_, cmd = press(t, m, "m")
	run(t, m, cmd)
	assert.Equal(t, []string{`POST /api/v1/system/mode {"mode":"MANUAL"}`}, ctrl.all())
}

func TestDashboard_AllOff(t *testing.T) {
	m, ctrl, svc := newTestModel(t)

	_, cmd := press(t, m, "o")
	run(t, m, cmd)
	svc.Dashboard.Wait()

	calls := ctrl.all()
	require.Len(t, calls, 5)
	assert.Equal(t, `POST /api/v1/system/mode {"mode":"MANUAL"}`, calls[0])
	for _, id := range api.RelayIDs {
		assert.Contains(t, calls[1:], fmt.Sprintf(`POST /api/v1/relays/%s/toggle {"state":false}`, id))
	}
	assert.Equal(t, "all relays off (MANUAL mode)", svc.Notify.Snapshot()[0].Message)
}

func TestRelays_ToggleOnlyInManual(t *testing.T) {
	m, ctrl, svc := newTestModel(t)
	m, _ = press(t, m, "2")
	m = step(t, m, msgs.RelaysMsg{Data: &api.RelayState{}})

	m = withMode(t, m, api.ModeAuto)
	_, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "MANUAL mode")

	m = withMode(t, m, api.ModeManual)
	_, cmd = press(t, m, "f")
	assert.Nil(t, cmd, "already off")

	m, _ = press(t, m, "j")
	_, cmd = press(t, m, "n")
	run(t, m, cmd)
	assert.Equal(t, []string{`POST /api/v1/relays/fogger/toggle {"state":true}`}, ctrl.all())
	assert.Equal(t, "Fog on", svc.Notify.Snapshot()[0].Message)
}

func TestRelays_CursorBounds(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "2")

	m, _ = press(t, m, "k")
	assert.Equal(t, 0, m.relayCursor)
	for range 10 {
		m, _ = press(t, m, "j")
	}
	assert.Equal(t, len(api.RelayIDs)-1, m.relayCursor)
}

func TestAutomation_PauseAndDelete(t *testing.T) {
	m, ctrl, svc := newTestModel(t)
	m, cmd := press(t, m, "3")
	m = run(t, m, cmd)

	_, cmd = press(t, m, " ")
	run(t, m, cmd)
	assert.Contains(t, ctrl.all(), `PUT /api/v1/schedules/s1 {"relay_id":"fogger","start_time":"06:00","end_time":"06:05","is_active":false}`)
	assert.False(t, svc.Automation.Schedules.Get()[0].IsActive)

	m, _ = press(t, m, "d")
	require.NotNil(t, m.form)
	assert.Contains(t, m.View(), "Delete Fog schedule")

	m, _ = press(t, m, "esc")
	assert.Nil(t, m.form)
}

func TestAutomation_EditOpensForm(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "3")
	m, _ = press(t, m, "e")
	assert.Nil(t, m.form, "config not loaded yet")

	m, cmd := press(t, m, "r")
	m = run(t, m, cmd)
	m, _ = press(t, m, "e")
	require.NotNil(t, m.form)
	assert.Contains(t, m.View(), "Warm target min")
}

func TestForms_Submit(t *testing.T) {
	m, ctrl, svc := newTestModel(t)
	svc.Automation.Schedules.Set([]api.Schedule{{ID: "s1"}})

	next, cmd := newScheduleForm(pages.DefaultSchedule()).submit(m)
	assert.Nil(t, next)
	run(t, m, cmd)
	assert.Contains(t, ctrl.all(), `POST /api/v1/schedules {"relay_id":"light","start_time":"08:00","end_time":"20:00","is_active":true}`)
	assert.Equal(t, "s2", svc.Automation.Schedules.Get()[0].ID)

	next, cmd = newDeleteForm(api.Schedule{ID: "s1"}).submit(m)
	assert.Nil(t, next)
	assert.Nil(t, cmd, "confirm defaults to keep")

	cfg := api.AutomationConfig{WarmTargetMin: 27}
	next, cmd = newConfigForm(cfg).submit(m)
	assert.Nil(t, next, "no changes, nothing to confirm")
	assert.Nil(t, cmd)

	next, cmd = newConfirmSaveForm(cfg, "diff").submit(m)
	assert.Nil(t, next)
	run(t, m, cmd)
	assert.Contains(t, ctrl.all(), "PUT /api/v1/config")
	assert.InDelta(t, 27.0, svc.Automation.Config.Get().WarmTargetMin, 0.001)
}

func TestHistory_RangeKeys(t *testing.T) {
	m, _, svc := newTestModel(t)
	m, cmd := press(t, m, "4")
	m = run(t, m, cmd)

	_, cmd = press(t, m, "l")
	run(t, m, cmd)
	assert.Equal(t, pages.Range24h, svc.History.Range.Get())

	m, _ = press(t, m, "h")
	assert.Contains(t, m.View(), "no samples")
}

func TestSystem_LogsAndLoadMore(t *testing.T) {
	m, ctrl, svc := newTestModel(t)

	m, cmd := press(t, m, "5")
	m = run(t, m, cmd)
	assert.Len(t, svc.System.Logs.Get(), 2)
	assert.Len(t, m.logs.Rows(), 2)
	assert.Contains(t, m.View(), "load more")

	_, cmd = press(t, m, "l")
	m = run(t, m, cmd)
	assert.Len(t, m.logs.Rows(), 4)
	assert.Contains(t, ctrl.all(), "GET /api/v1/relay-logs")

	_, cmd = press(t, m, "r")
	m = run(t, m, cmd)
	assert.Len(t, m.logs.Rows(), 2)
}

func TestNotifications_RenderAndDismiss(t *testing.T) {
	m, _, svc := newTestModel(t)

	svc.Notify.Success("Saved")
	svc.Notify.Error("Failed")
	m = step(t, m, msgs.NotificationsMsg{List: svc.Notify.Snapshot()})
	assert.Contains(t, m.View(), "Saved")
	assert.Contains(t, m.View(), "Failed")

	m, cmd := press(t, m, "x")
	assert.NotContains(t, m.View(), "Saved")
	run(t, m, cmd)
	list := svc.Notify.Snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, "Failed", list[0].Message)
}

func TestConnectivityIndicator(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "connecting")

	m = step(t, m, msgs.SensorsMsg{Data: &api.SensorCurrent{Mode: api.ModeAuto}})
	assert.Contains(t, m.View(), "online")

	m = step(t, m, msgs.ConnectivityMsg{Err: poller.SensorError})
	assert.Contains(t, m.View(), poller.SensorError)
}

func TestHelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Actions")

	m, _ = press(t, m, "esc")
	assert.False(t, m.showHelp)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestProgramReady_PicksUpEarlierFetches(t *testing.T) {
	m, _, svc := newTestModel(t)
	require.Nil(t, m.relays)

	// Applied while no bridge was subscribed.
	svc.Sync.Sensors.Set(&api.SensorCurrent{WarmTemp: 30.5, Mode: api.ModeManual})
	svc.Sync.Relays.Set(&api.RelayState{HeatMat: true, Light: true})
	svc.Sync.Status.Set(&api.SystemStatus{Uptime: 42, Mode: api.ModeManual})
	svc.Sync.LastError.Set(poller.SensorError)
	svc.Notify.Info("controller reachable")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p := tea.NewProgram(nil, tea.WithContext(ctx))

	m = step(t, m, msgs.ProgramReadyMsg{Program: p})
	require.NotNil(t, m.cancelBridge)
	t.Cleanup(m.cancelBridge)

	assert.Equal(t, svc.Sync.Sensors.Get(), m.sensors)
	assert.Equal(t, &api.RelayState{HeatMat: true, Light: true}, m.relays)
	assert.Equal(t, int64(42), m.status.Uptime)
	assert.Equal(t, poller.SensorError, m.lastErr)
	require.Len(t, m.toasts, 1)
	assert.Equal(t, api.ModeManual, m.mode())
	assert.Equal(t, 1, svc.Events.Len())
}

func TestMode_StatusWinsOverSensors(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, api.Mode(""), m.mode())

	m = step(t, m, msgs.SensorsMsg{Data: &api.SensorCurrent{Mode: api.ModeAuto}})
	assert.Equal(t, api.ModeAuto, m.mode())

	m = step(t, m, msgs.StatusMsg{Data: &api.SystemStatus{Mode: api.ModeManual}})
	assert.Equal(t, api.ModeManual, m.mode())

	m = step(t, m, msgs.SensorsMsg{Data: &api.SensorCurrent{Mode: api.ModeAuto}})
	assert.Equal(t, api.ModeManual, m.mode())
}
