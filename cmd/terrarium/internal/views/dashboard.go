package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
)

const cardWidth = 18

// DashboardData is what the overview page shows.
type DashboardData struct {
	Sensors *api.SensorCurrent
	Relays  *api.RelayState
	Mode    api.Mode
	Loading bool
	Spinner string
}

// Dashboard renders the overview page.
func Dashboard(d DashboardData, width int) string {
	if d.Loading && d.Sensors == nil {
		return d.Spinner + " Loading sensor data…"
	}

	var sb strings.Builder

	if d.Sensors != nil {
		cards := []string{
			card("Warm side", styles.WarmStyle.Render(Temp(d.Sensors.WarmTemp))),
			card("Warm humidity", styles.WarmStyle.Render(Humidity(d.Sensors.WarmHum))),
			card("Cold side", styles.ColdStyle.Render(Temp(d.Sensors.ColdTemp))),
			card("Cold humidity", styles.ColdStyle.Render(Humidity(d.Sensors.ColdHum))),
		}

		perRow := max(width/(cardWidth+4), 1)
		for i := 0; i < len(cards); i += perRow {
			end := min(i+perRow, len(cards))
			sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "%s %s   %s %s\n\n",
			styles.DimStyle.Render("Last update"), Clock(d.Sensors.Timestamp),
			styles.DimStyle.Render("Mode"), ModeBadge(d.Mode),
		)
	}

	sb.WriteString(styles.HeaderStyle.Render("Relays"))
	sb.WriteString("\n")
	for _, id := range api.RelayIDs {
		on := pages.RelayOn(d.Relays, id)
		st := styles.RelayOffStyle
		if on {
			st = styles.RelayOnStyle
		}
		fmt.Fprintf(&sb, "  %s %s %s\n", id.Icon(), Pad(id.Label(), 6), st.Render(OnOff(on)))
	}

	sb.WriteString("\n")
	sb.WriteString(actions(
		action{"a", "AUTO", d.Mode != api.ModeAuto},
		action{"m", "MANUAL", d.Mode != api.ModeManual},
		action{"o", "all off", true},
	))

	return sb.String()
}

func card(title, value string) string {
	body := styles.CardTitleStyle.Render(title) + "\n" + value
	return styles.CardStyle.Width(cardWidth).Render(body)
}

// ModeBadge renders the AUTO/MANUAL badge. Unknown modes render dim.
func ModeBadge(m api.Mode) string {
	switch m {
	case api.ModeAuto:
		return styles.AutoBadge.Render(string(m))
	case api.ModeManual:
		return styles.ManualBadge.Render(string(m))
	case "":
		return styles.DimStyle.Render("—")
	default:
		return styles.DimStyle.Render(string(m))
	}
}

type action struct {
	key     string
	label   string
	enabled bool
}

func actions(as ...action) string {
	parts := make([]string, 0, len(as))
	for _, a := range as {
		s := fmt.Sprintf("[%s] %s", a.key, a.label)
		if !a.enabled {
			s = styles.DimStyle.Strikethrough(true).Render(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "  ")
}
