package pages

import (
	"context"
	"errors"
	"sync"

	"github.com/germanamz/terrarium/pkg/api"
)

type note struct {
	kind string
	msg  string
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (f *fakeNotifier) add(kind, msg string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, note{kind: kind, msg: msg})
	return uint64(len(f.notes))
}

func (f *fakeNotifier) Success(msg string) uint64 { return f.add("success", msg) }
func (f *fakeNotifier) Error(msg string) uint64   { return f.add("error", msg) }
func (f *fakeNotifier) Info(msg string) uint64    { return f.add("info", msg) }

func (f *fakeNotifier) all() []note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]note(nil), f.notes...)
}

type toggleCall struct {
	id api.RelayID
	on bool
}

var errBackend = errors.New("backend unavailable")

// fakeBackend records calls and returns canned results. Nil results with a
// nil error field still succeed.
type fakeBackend struct {
	mu sync.Mutex

	modes   []api.Mode
	toggles []toggleCall
	deleted []string
	updated []api.ScheduleRequest
	logQs   []api.LogQuery
	histQs  []api.HistoryQuery

	modeErr     error
	toggleErr   map[api.RelayID]error
	configErr   error
	saveErr     error
	scheduleErr error
	createErr   error
	updateErr   error
	deleteErr   error
	historyErr  error
	energyErr   error
	logsErr     error

	config    *api.AutomationConfig
	schedules []api.Schedule
	history   []api.SensorRecord
	energy    []api.EnergyReport
	logPages  [][]api.RelayLogEntry

	// logsGate, when set, holds every RelayLogs call until it is closed.
	logsGate chan struct{}
	// historyFn, when set, answers SensorHistory after the query is recorded.
	historyFn func(ctx context.Context, q api.HistoryQuery) ([]api.SensorRecord, error)
}

func (f *fakeBackend) logCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logQs)
}

func (f *fakeBackend) historyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.histQs)
}

func (f *fakeBackend) SetMode(_ context.Context, mode api.Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
	return f.modeErr
}

func (f *fakeBackend) ToggleRelay(_ context.Context, id api.RelayID, on bool) (*api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles = append(f.toggles, toggleCall{id: id, on: on})
	if err := f.toggleErr[id]; err != nil {
		return nil, err
	}
	return &api.Ack{Msg: "ok"}, nil
}

func (f *fakeBackend) Config(context.Context) (*api.AutomationConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeBackend) UpdateConfig(_ context.Context, cfg api.AutomationConfig) (*api.AutomationConfig, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &cfg, nil
}

func (f *fakeBackend) Schedules(context.Context) ([]api.Schedule, error) {
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	return f.schedules, nil
}

func (f *fakeBackend) CreateSchedule(_ context.Context, req api.ScheduleRequest) (*api.Schedule, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &api.Schedule{ID: "new", RelayID: req.RelayID, StartTime: req.StartTime, EndTime: req.EndTime, IsActive: true}, nil
}

func (f *fakeBackend) UpdateSchedule(_ context.Context, _ string, req api.ScheduleRequest) (*api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &api.Ack{Msg: "updated"}, nil
}

func (f *fakeBackend) DeleteSchedule(_ context.Context, id string) (*api.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &api.Ack{Msg: "deleted"}, nil
}

func (f *fakeBackend) SensorHistory(ctx context.Context, q api.HistoryQuery) ([]api.SensorRecord, error) {
	f.mu.Lock()
	f.histQs = append(f.histQs, q)
	fn := f.historyFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return append([]api.SensorRecord(nil), f.history...), nil
}

func (f *fakeBackend) EnergyReports(context.Context, api.EnergyQuery) ([]api.EnergyReport, error) {
	if f.energyErr != nil {
		return nil, f.energyErr
	}
	return f.energy, nil
}

func (f *fakeBackend) RelayLogs(_ context.Context, q api.LogQuery) ([]api.RelayLogEntry, error) {
	f.mu.Lock()
	f.logQs = append(f.logQs, q)
	gate := f.logsGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	if len(f.logPages) == 0 {
		return nil, nil
	}
	page := f.logPages[0]
	f.logPages = f.logPages[1:]
	return page, nil
}
