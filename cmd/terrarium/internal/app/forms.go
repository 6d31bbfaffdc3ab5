package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
)

// form is an embedded huh form. onSubmit runs once the form completes and
// may chain another form or start a background command.
type form struct {
	huh      *huh.Form
	onSubmit func(m Model) (*form, tea.Cmd)
}

func (f *form) submit(m Model) (*form, tea.Cmd) {
	if f.onSubmit == nil {
		return nil, nil
	}
	return f.onSubmit(m)
}

func (f *form) view() string {
	return f.huh.View()
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
		return errors.New("use HH:MM")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// configDraft holds the text fields of the thresholds form.
type configDraft struct {
	WarmMin, WarmMax   string
	ColdMax, Emergency string
	HumMin, HumMax     string
	HystTemp, HystHum  string
}

func draftOf(c api.AutomationConfig) *configDraft {
	return &configDraft{
		WarmMin:   formatFloat(c.WarmTargetMin),
		WarmMax:   formatFloat(c.WarmTargetMax),
		ColdMax:   formatFloat(c.ColdMaxThreshold),
		Emergency: formatFloat(c.EmergencyMaxThreshold),
		HumMin:    formatFloat(c.HumidityMin),
		HumMax:    formatFloat(c.HumidityMax),
		HystTemp:  formatFloat(c.HysteresisTemp),
		HystHum:   formatFloat(c.HysteresisHum),
	}
}

func (d *configDraft) config() api.AutomationConfig {
	return api.AutomationConfig{
		WarmTargetMin:         parseFloat(d.WarmMin),
		WarmTargetMax:         parseFloat(d.WarmMax),
		ColdMaxThreshold:      parseFloat(d.ColdMax),
		EmergencyMaxThreshold: parseFloat(d.Emergency),
		HumidityMin:           parseFloat(d.HumMin),
		HumidityMax:           parseFloat(d.HumMax),
		HysteresisTemp:        parseFloat(d.HystTemp),
		HysteresisHum:         parseFloat(d.HystHum),
	}
}

func numberInput(title string, v *string) *huh.Input {
	return huh.NewInput().Title(title).Value(v).Validate(validateFloat)
}

// newConfigForm edits the thresholds and then asks to confirm the diff.
func newConfigForm(current api.AutomationConfig) *form {
	d := draftOf(current)

	f := huh.NewForm(
		huh.NewGroup(
			numberInput("Warm target min (°C)", &d.WarmMin),
			numberInput("Warm target max (°C)", &d.WarmMax),
			numberInput("Cold side max (°C)", &d.ColdMax),
			numberInput("Emergency max (°C)", &d.Emergency),
		).Title("Temperature"),
		huh.NewGroup(
			numberInput("Humidity min (%)", &d.HumMin),
			numberInput("Humidity max (%)", &d.HumMax),
			numberInput("Temperature hysteresis (°C)", &d.HystTemp),
			numberInput("Humidity hysteresis (%)", &d.HystHum),
		).Title("Humidity & hysteresis"),
	).WithShowHelp(true)

	return &form{
		huh: f,
		onSubmit: func(Model) (*form, tea.Cmd) {
			next := d.config()
			diff, err := pages.ConfigDiff(current, next)
			if err != nil || diff == "" {
				return nil, nil
			}
			return newConfirmSaveForm(next, diff), nil
		},
	}
}

func newConfirmSaveForm(cfg api.AutomationConfig, diff string) *form {
	save := true
	f := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Save configuration?").
			Description(diff).
			Affirmative("Save").
			Negative("Cancel").
			Value(&save),
	))

	return &form{
		huh: f,
		onSubmit: func(m Model) (*form, tea.Cmd) {
			if !save {
				return nil, nil
			}
			a := m.svc.Automation
			return nil, m.do(actionConfig, func(ctx context.Context) { a.SaveConfig(ctx, cfg) })
		},
	}
}

// newScheduleForm creates a schedule prefilled with req.
func newScheduleForm(req api.ScheduleRequest) *form {
	relay := req.RelayID
	start, end := req.StartTime, req.EndTime
	active := true

	opts := make([]huh.Option[api.RelayID], 0, len(api.RelayIDs))
	for _, id := range api.RelayIDs {
		opts = append(opts, huh.NewOption(id.Icon()+" "+id.Label(), id))
	}

	f := huh.NewForm(huh.NewGroup(
		huh.NewSelect[api.RelayID]().Title("Relay").Options(opts...).Value(&relay),
		huh.NewInput().Title("Start (HH:MM)").Value(&start).Validate(validateClock),
		huh.NewInput().Title("End (HH:MM)").Value(&end).Validate(validateClock),
		huh.NewConfirm().Title("Active").Value(&active),
	).Title("New schedule")).WithShowHelp(true)

	return &form{
		huh: f,
		onSubmit: func(m Model) (*form, tea.Cmd) {
			r := api.ScheduleRequest{
				RelayID:   relay,
				StartTime: strings.TrimSpace(start),
				EndTime:   strings.TrimSpace(end),
				IsActive:  &active,
			}
			a := m.svc.Automation
			return nil, m.do(actionSchedule, func(ctx context.Context) { a.AddSchedule(ctx, r) })
		},
	}
}

func newDeleteForm(s api.Schedule) *form {
	confirm := false
	f := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s schedule %s–%s?", s.RelayID.Label(), s.StartTime, s.EndTime)).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirm),
	))

	return &form{
		huh: f,
		onSubmit: func(m Model) (*form, tea.Cmd) {
			if !confirm {
				return nil, nil
			}
			a := m.svc.Automation
			return nil, m.do(actionSchedule, func(ctx context.Context) { a.DeleteSchedule(ctx, s.ID) })
		},
	}
}
