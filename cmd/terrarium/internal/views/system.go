package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
)

// LogColumns are the relay log table columns.
func LogColumns() []table.Column {
	return []table.Column{
		{Title: "Time", Width: 19},
		{Title: "Relay", Width: 8},
		{Title: "State", Width: 5},
		{Title: "Reason", Width: 30},
	}
}

// LogRows converts log entries to table rows.
func LogRows(entries []api.RelayLogEntry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		ts := "—"
		if !e.RecordedAt.IsZero() {
			ts = e.RecordedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, table.Row{ts, e.RelayID.Label(), OnOff(e.State), e.Reason})
	}
	return rows
}

// SystemData is what the system page shows. LogTable is the rendered
// relay log table.
type SystemData struct {
	Status      *api.SystemStatus
	LogTable    string
	LogCount    int
	LogsLoading bool
	HasMore     bool
	Spinner     string
}

// System renders backend health and the relay log.
func System(d SystemData) string {
	var sb strings.Builder

	sb.WriteString(styles.HeaderStyle.Render("Controller"))
	sb.WriteString("\n")
	if d.Status == nil {
		sb.WriteString(d.Spinner + " waiting for status…\n")
	} else {
		db := styles.OnlineStyle.Render(d.Status.DBStatus)
		if d.Status.DBStatus != "ok" && d.Status.DBStatus != "connected" {
			db = styles.WarningStyle.Render(d.Status.DBStatus)
		}
		fmt.Fprintf(&sb, "  %s %s\n", styles.DimStyle.Render(Pad("Mode", 10)), ModeBadge(d.Status.Mode))
		fmt.Fprintf(&sb, "  %s %s\n", styles.DimStyle.Render(Pad("Uptime", 10)), pages.FormatUptime(d.Status.Uptime))
		fmt.Fprintf(&sb, "  %s %s\n", styles.DimStyle.Render(Pad("Storage", 10)), db)
	}

	sb.WriteString("\n")
	sb.WriteString(styles.HeaderStyle.Render("Relay log"))
	sb.WriteString("\n")

	switch {
	case d.LogsLoading && d.LogCount == 0:
		sb.WriteString(d.Spinner + " loading relay log…\n")
	case d.LogCount == 0:
		sb.WriteString(styles.DimStyle.Render("  no relay activity") + "\n")
	default:
		sb.WriteString(d.LogTable)
		sb.WriteString("\n")
	}

	hint := "[r] reload"
	if d.HasMore {
		hint = "[l] load more  " + hint
	}
	if d.LogsLoading && d.LogCount > 0 {
		hint = d.Spinner + " loading…  " + hint
	}
	sb.WriteString(styles.DimStyle.Render(hint))

	return sb.String()
}
