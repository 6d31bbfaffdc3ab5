package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// HelpMarkdown is the body of the help screen.
const HelpMarkdown = `# terrarium

Live view of the terrarium controller. Sensors and relays refresh every few
seconds; system status less often.

## Pages

| Key | Page |
|-----|------|
| 1 | Dashboard |
| 2 | Relays |
| 3 | Automation |
| 4 | History |
| 5 | System |

## Actions

- **Dashboard**: ` + "`a`" + ` AUTO, ` + "`m`" + ` MANUAL, ` + "`o`" + ` switch to MANUAL and turn every relay off.
- **Relays**: ` + "`↑/↓`" + ` select, ` + "`n`" + ` on, ` + "`f`" + ` off. Only in MANUAL mode.
- **Automation**: ` + "`e`" + ` edit thresholds, ` + "`n`" + ` new schedule, ` + "`space`" + ` pause/resume, ` + "`d`" + ` delete.
- **History**: ` + "`←/→`" + ` change the time window.
- **System**: ` + "`l`" + ` load more log entries, ` + "`r`" + ` reload.

Press ` + "`x`" + ` to dismiss the oldest notification, ` + "`?`" + ` to close this help and ` + "`q`" + ` to quit.
`

// RenderHelp renders HelpMarkdown for a terminal of the given width. The raw
// markdown is returned if rendering fails.
func RenderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return HelpMarkdown
	}
	out, err := r.Render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
