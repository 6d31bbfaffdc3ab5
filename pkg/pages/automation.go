package pages

import (
	"context"
	"fmt"
	"slices"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/state"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultSchedule is the prefilled request of the "new schedule" form.
func DefaultSchedule() api.ScheduleRequest {
	return api.ScheduleRequest{RelayID: api.RelayLight, StartTime: "08:00", EndTime: "20:00"}
}

// Automation manages thresholds and relay schedules.
type Automation struct {
	Config           *state.Value[*api.AutomationConfig]
	ConfigLoading    *state.Value[bool]
	Saving           *state.Value[bool]
	Schedules        *state.Value[[]api.Schedule]
	SchedulesLoading *state.Value[bool]

	backend Backend
	notify  Notifier
	log     *zap.SugaredLogger
}

// NewAutomation creates the automation page controller.
func NewAutomation(b Backend, n Notifier, log *zap.SugaredLogger) *Automation {
	return &Automation{
		Config:           state.NewValue[*api.AutomationConfig](nil),
		ConfigLoading:    state.NewValue(true),
		Saving:           state.NewValue(false),
		Schedules:        state.NewValue[[]api.Schedule](nil),
		SchedulesLoading: state.NewValue(true),
		backend:          b,
		notify:           n,
		log:              nopLog(log),
	}
}

// Load fetches configuration and schedules.
func (a *Automation) Load(ctx context.Context) {
	a.LoadConfig(ctx)
	a.LoadSchedules(ctx)
}

// LoadConfig fetches the thresholds.
func (a *Automation) LoadConfig(ctx context.Context) {
	defer a.ConfigLoading.Set(false)

	cfg, err := a.backend.Config(ctx)
	if err != nil {
		a.log.Warnw("config_load_failed", "err", err)
		a.notify.Error("failed to load configuration")
		return
	}
	a.Config.Set(cfg)
}

// SaveConfig stores cfg. The page keeps what the backend returned.
func (a *Automation) SaveConfig(ctx context.Context, cfg api.AutomationConfig) {
	a.Saving.Set(true)
	defer a.Saving.Set(false)

	saved, err := a.backend.UpdateConfig(ctx, cfg)
	if err != nil {
		a.log.Warnw("config_save_failed", "err", err)
		a.notify.Error(api.Message(err, "failed to save configuration"))
		return
	}
	a.Config.Set(saved)
	a.notify.Success("configuration saved")
}

// LoadSchedules fetches the schedule list. Failures leave the list as is.
func (a *Automation) LoadSchedules(ctx context.Context) {
	defer a.SchedulesLoading.Set(false)

	list, err := a.backend.Schedules(ctx)
	if err != nil {
		a.log.Warnw("schedules_load_failed", "err", err)
		return
	}
	a.Schedules.Set(list)
}

// AddSchedule creates a schedule and puts it first in the list.
func (a *Automation) AddSchedule(ctx context.Context, req api.ScheduleRequest) {
	created, err := a.backend.CreateSchedule(ctx, req)
	if err != nil {
		a.log.Warnw("schedule_create_failed", "err", err)
		a.notify.Error("failed to create schedule")
		return
	}

	a.Schedules.Update(func(cur []api.Schedule) []api.Schedule {
		next := make([]api.Schedule, 0, len(cur)+1)
		return append(append(next, *created), cur...)
	})
	a.notify.Success("schedule created")
}

// SetScheduleActive enables or disables an existing schedule.
func (a *Automation) SetScheduleActive(ctx context.Context, s api.Schedule, active bool) {
	req := api.ScheduleRequest{RelayID: s.RelayID, StartTime: s.StartTime, EndTime: s.EndTime, IsActive: &active}
	if _, err := a.backend.UpdateSchedule(ctx, s.ID, req); err != nil {
		a.log.Warnw("schedule_update_failed", "id", s.ID, "err", err)
		a.notify.Error(api.Message(err, "failed to update schedule"))
		return
	}

	a.Schedules.Update(func(cur []api.Schedule) []api.Schedule {
		next := slices.Clone(cur)
		for i := range next {
			if next[i].ID == s.ID {
				next[i].IsActive = active
			}
		}
		return next
	})
	a.notify.Success("schedule updated")
}

// DeleteSchedule removes a schedule from the backend and the list.
func (a *Automation) DeleteSchedule(ctx context.Context, id string) {
	if _, err := a.backend.DeleteSchedule(ctx, id); err != nil {
		a.log.Warnw("schedule_delete_failed", "id", id, "err", err)
		a.notify.Error("failed to delete schedule")
		return
	}

	a.Schedules.Update(func(cur []api.Schedule) []api.Schedule {
		return slices.DeleteFunc(slices.Clone(cur), func(s api.Schedule) bool { return s.ID == id })
	})
	a.notify.Success("schedule deleted")
}

// ConfigDiff renders a unified diff between two threshold sets as YAML. It
// returns "" when nothing changed.
func ConfigDiff(before, after api.AutomationConfig) (string, error) {
	a, err := yaml.Marshal(before)
	if err != nil {
		return "", fmt.Errorf("pages: encode config: %w", err)
	}
	b, err := yaml.Marshal(after)
	if err != nil {
		return "", fmt.Errorf("pages: encode config: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(a)),
		B:        difflib.SplitLines(string(b)),
		FromFile: "current",
		ToFile:   "pending",
		Context:  1,
	}

	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("pages: diff config: %w", err)
	}
	return out, nil
}
