package views

import (
	"fmt"
	"strings"

	"github.com/germanamz/terrarium/cmd/terrarium/internal/styles"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
)

// RelaysData is what the relay control page shows. Can reports whether
// setting a relay to a target state is currently allowed.
type RelaysData struct {
	Relays    *api.RelayState
	Mode      api.Mode
	Cursor    int
	Switching bool
	Can       func(id api.RelayID, target bool) bool
}

// Relays renders the relay control page.
func Relays(d RelaysData) string {
	var sb strings.Builder

	if d.Mode != api.ModeManual {
		sb.WriteString(styles.WarningStyle.Render("Relays can only be switched in MANUAL mode. Press [m] to switch."))
		sb.WriteString("\n\n")
	}

	for i, id := range api.RelayIDs {
		on := pages.RelayOn(d.Relays, id)

		cursor := "  "
		label := Pad(fmt.Sprintf("%s %s", id.Icon(), id.Label()), 10)
		if i == d.Cursor {
			cursor = styles.SelectedStyle.Render("> ")
			label = styles.SelectedStyle.Render(label)
		}

		state := styles.RelayOffStyle.Render(Pad(OnOff(on), 4))
		if on {
			state = styles.RelayOnStyle.Render(Pad(OnOff(on), 4))
		}

		fmt.Fprintf(&sb, "%s%s %s  %s %s\n", cursor, label, state,
			button("ON", d.Can != nil && d.Can(id, true)),
			button("OFF", d.Can != nil && d.Can(id, false)),
		)
	}

	if d.Switching {
		sb.WriteString("\n")
		sb.WriteString(styles.DimStyle.Render("switching…"))
	}

	sb.WriteString("\n")
	sb.WriteString(styles.DimStyle.Render("[n] on  [f] off  [m] switch to MANUAL"))

	return sb.String()
}

func button(label string, enabled bool) string {
	s := "[" + label + "]"
	if !enabled {
		return styles.DimStyle.Render(s)
	}
	return styles.HeaderStyle.Render(s)
}
