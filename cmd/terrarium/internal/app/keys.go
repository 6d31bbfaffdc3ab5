package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Shell.
	Next    key.Binding
	Prev    key.Binding
	Pages   []key.Binding
	Help    key.Binding
	Quit    key.Binding
	Dismiss key.Binding
	Refresh key.Binding
	Cancel  key.Binding

	// Dashboard.
	Auto   key.Binding
	Manual key.Binding
	AllOff key.Binding

	// Lists.
	Up   key.Binding
	Down key.Binding

	// Relays.
	On  key.Binding
	Off key.Binding

	// Automation.
	Edit        key.Binding
	NewSchedule key.Binding
	Pause       key.Binding
	Delete      key.Binding

	// History.
	RangePrev key.Binding
	RangeNext key.Binding

	// System.
	More key.Binding
}

func defaultKeys() keyMap {
	k := keyMap{
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Auto:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "AUTO")),
		Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "MANUAL")),
		AllOff: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "all off")),

		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),

		On:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "on")),
		Off: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "off")),

		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit thresholds")),
		NewSchedule: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new schedule")),
		Pause:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),

		RangePrev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "shorter")),
		RangeNext: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "longer")),

		More: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "load more")),
	}

	for i, p := range allPages {
		n := string(rune('1' + i))
		k.Pages = append(k.Pages, key.NewBinding(key.WithKeys(n), key.WithHelp(n, p.String())))
	}

	return k
}

// bindings is a help.KeyMap over a flat list.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

// forPage lists the bindings shown in the footer for p.
func (k keyMap) forPage(p Page) bindings {
	var local []key.Binding
	switch p {
	case PageDashboard:
		local = []key.Binding{k.Auto, k.Manual, k.AllOff}
	case PageRelays:
		local = []key.Binding{k.Up, k.Down, k.On, k.Off, k.Manual}
	case PageAutomation:
		local = []key.Binding{k.Edit, k.NewSchedule, k.Pause, k.Delete, k.Refresh}
	case PageHistory:
		local = []key.Binding{k.RangePrev, k.RangeNext, k.Refresh}
	case PageSystem:
		local = []key.Binding{k.More, k.Refresh}
	}
	return append(local, k.Next, k.Dismiss, k.Help, k.Quit)
}
