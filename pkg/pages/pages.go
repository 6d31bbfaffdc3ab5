// Package pages holds the operator intents behind each dashboard page. Every
// intent performs one or more API calls and reports the outcome as a
// notification; none of them touch the synchronizer's state. Page-local data
// (configuration, schedules, history, logs) lives in state.Values owned by the
// page controller.
package pages

import (
	"context"

	"github.com/germanamz/terrarium/pkg/api"
	"go.uber.org/zap"
)

// Notifier receives user-facing outcomes. *notify.Emitter satisfies it.
type Notifier interface {
	Success(msg string) uint64
	Error(msg string) uint64
	Info(msg string) uint64
}

// Backend is every API operation a page can issue. *api.Client satisfies it.
type Backend interface {
	SetMode(ctx context.Context, mode api.Mode) error
	ToggleRelay(ctx context.Context, id api.RelayID, on bool) (*api.Ack, error)
	Config(ctx context.Context) (*api.AutomationConfig, error)
	UpdateConfig(ctx context.Context, cfg api.AutomationConfig) (*api.AutomationConfig, error)
	Schedules(ctx context.Context) ([]api.Schedule, error)
	CreateSchedule(ctx context.Context, req api.ScheduleRequest) (*api.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, req api.ScheduleRequest) (*api.Ack, error)
	DeleteSchedule(ctx context.Context, id string) (*api.Ack, error)
	SensorHistory(ctx context.Context, q api.HistoryQuery) ([]api.SensorRecord, error)
	EnergyReports(ctx context.Context, q api.EnergyQuery) ([]api.EnergyReport, error)
	RelayLogs(ctx context.Context, q api.LogQuery) ([]api.RelayLogEntry, error)
}

var _ Backend = (*api.Client)(nil)

func nopLog(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

// RelayOn reports the state of id in s. Unknown state reads as off.
func RelayOn(s *api.RelayState, id api.RelayID) bool {
	if s == nil {
		return false
	}
	return s.Get(id)
}
