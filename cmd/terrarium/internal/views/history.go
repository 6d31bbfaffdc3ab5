package views

import (
	"fmt"
	"strings"

	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
)

// HistoryData is what the history page shows.
type HistoryData struct {
	Range         pages.Range
	Records       []api.SensorRecord
	Loading       bool
	Energy        []api.EnergyReport
	EnergyLoading bool
	Spinner       string
}

type series struct {
	label  string
	values []float64
	unit   func(float64) string
}

// History renders sparklines of the selected window and the energy table.
func History(d HistoryData, width int) string {
	var sb strings.Builder

	tabs := make([]string, 0, len(pages.Ranges))
	for _, r := range pages.Ranges {
		if r == d.Range {
			tabs = append(tabs, styles.ActiveTabStyle.Render(string(r)))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(string(r)))
		}
	}
	sb.WriteString(strings.Join(tabs, ""))
	sb.WriteString("\n\n")

	switch {
	case d.Loading:
		sb.WriteString(d.Spinner + " loading history…\n")
	case len(d.Records) == 0:
		sb.WriteString(styles.DimStyle.Render("  no samples in this window") + "\n")
	default:
		n := len(d.Records)
		all := []series{
			{"Warm temp", make([]float64, n), Temp},
			{"Cold temp", make([]float64, n), Temp},
			{"Warm hum", make([]float64, n), Humidity},
			{"Cold hum", make([]float64, n), Humidity},
		}
		for i, r := range d.Records {
			all[0].values[i] = r.WarmTemp
			all[1].values[i] = r.ColdTemp
			all[2].values[i] = r.WarmHum
			all[3].values[i] = r.ColdHum
		}

		sparkWidth := max(width-44, 10)
		for _, s := range all {
			lo, hi := MinMax(s.values)
			fmt.Fprintf(&sb, "  %s %s  %s %s\n",
				styles.DimStyle.Render(Pad(s.label, 10)),
				Sparkline(s.values, sparkWidth),
				styles.DimStyle.Render(fmt.Sprintf("%s–%s", s.unit(lo), s.unit(hi))),
				s.unit(s.values[n-1]),
			)
		}
		fmt.Fprintf(&sb, "  %s\n", styles.DimStyle.Render(fmt.Sprintf("%d samples, %s → %s",
			n, Clock(d.Records[0].Timestamp), Clock(d.Records[n-1].Timestamp))))
	}

	sb.WriteString("\n")
	sb.WriteString(styles.HeaderStyle.Render("Energy (kWh)"))
	sb.WriteString("\n")

	switch {
	case d.EnergyLoading:
		sb.WriteString(d.Spinner + " loading energy reports…\n")
	case len(d.Energy) == 0:
		sb.WriteString(styles.DimStyle.Render("  no energy reports") + "\n")
	default:
		sb.WriteString(styles.DimStyle.Render("  " + Pad("Date", 12) + Pad("Heat", 8) + Pad("Light", 8) +
			Pad("Fog", 8) + Pad("Spare", 8) + Pad("Total", 8)))
		sb.WriteString("\n")
		for _, e := range d.Energy {
			sb.WriteString("  " + Pad(e.Date, 12) + kwh(e.HeatMatKwh) + kwh(e.LightKwh) +
				kwh(e.FoggerKwh) + kwh(e.SpareKwh) + styles.HeaderStyle.Render(kwh(e.TotalKwh)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles.DimStyle.Render("[←/→] range"))

	return sb.String()
}

func kwh(v float64) string {
	return Pad(fmt.Sprintf("%.2f", v), 8)
}
