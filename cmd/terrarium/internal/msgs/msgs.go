// Package msgs defines the bubbletea messages exchanged between the bridge,
// the background commands and the root model.
package msgs

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/notify"
)

// SensorsMsg carries a fresh sensor snapshot.
type SensorsMsg struct {
	Data *api.SensorCurrent
}

// RelaysMsg carries a fresh relay state.
type RelaysMsg struct {
	Data *api.RelayState
}

// StatusMsg carries a fresh system status.
type StatusMsg struct {
	Data *api.SystemStatus
}

// ConnectivityMsg reports the synchronizer's last error. Empty means online.
type ConnectivityMsg struct {
	Err string
}

// NotificationsMsg carries the visible toast list.
type NotificationsMsg struct {
	List []notify.Notification
}

// ActionDoneMsg is returned by every background intent once it has
// finished. Page data is re-read on the next render.
type ActionDoneMsg struct {
	Action string
}

// ProgramReadyMsg passes the *tea.Program to the model so it can start the
// bridge.
type ProgramReadyMsg struct {
	Program *tea.Program
}
