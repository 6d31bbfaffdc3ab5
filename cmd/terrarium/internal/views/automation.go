package views

import (
	"fmt"
	"strings"

	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/api"
)

// AutomationData is what the automation page shows.
type AutomationData struct {
	Config           *api.AutomationConfig
	ConfigLoading    bool
	Saving           bool
	Schedules        []api.Schedule
	SchedulesLoading bool
	Cursor           int
	Spinner          string
}

// Automation renders thresholds and schedules.
func Automation(d AutomationData) string {
	var sb strings.Builder

	sb.WriteString(styles.HeaderStyle.Render("Thresholds"))
	sb.WriteString("\n")

	switch {
	case d.ConfigLoading:
		sb.WriteString(d.Spinner + " loading configuration…\n")
	case d.Config == nil:
		sb.WriteString(styles.DimStyle.Render("  configuration unavailable") + "\n")
	default:
		c := d.Config
		rows := [][2]string{
			{"Warm target", fmt.Sprintf("%s – %s", Temp(c.WarmTargetMin), Temp(c.WarmTargetMax))},
			{"Cold max", Temp(c.ColdMaxThreshold)},
			{"Emergency max", Temp(c.EmergencyMaxThreshold)},
			{"Humidity", fmt.Sprintf("%s – %s", Humidity(c.HumidityMin), Humidity(c.HumidityMax))},
			{"Hysteresis", fmt.Sprintf("%.1f°C / %.0f%%", c.HysteresisTemp, c.HysteresisHum)},
		}
		for _, r := range rows {
			fmt.Fprintf(&sb, "  %s %s\n", styles.DimStyle.Render(Pad(r[0], 14)), r[1])
		}
	}
	if d.Saving {
		sb.WriteString(d.Spinner + " saving…\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.HeaderStyle.Render("Schedules"))
	sb.WriteString("\n")

	switch {
	case d.SchedulesLoading:
		sb.WriteString(d.Spinner + " loading schedules…\n")
	case len(d.Schedules) == 0:
		sb.WriteString(styles.DimStyle.Render("  no schedules") + "\n")
	default:
		for i, s := range d.Schedules {
			cursor := "  "
			if i == d.Cursor {
				cursor = styles.SelectedStyle.Render("> ")
			}
			active := styles.RelayOnStyle.Render("active")
			if !s.IsActive {
				active = styles.RelayOffStyle.Render("paused")
			}
			fmt.Fprintf(&sb, "%s%s %s %s–%s  %s\n", cursor, s.RelayID.Icon(),
				Pad(s.RelayID.Label(), 6), s.StartTime, s.EndTime, active)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles.DimStyle.Render("[e] edit thresholds  [n] new schedule  [space] pause/resume  [d] delete"))

	return sb.String()
}
