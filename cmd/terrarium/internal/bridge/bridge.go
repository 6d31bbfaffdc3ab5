// Package bridge forwards bus events into the bubbletea program.
package bridge

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/msgs"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/notify"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Translate converts a bus event into a tea.Msg. Unknown kinds or
// unexpected payloads yield nil.
func Translate(e events.Event) tea.Msg {
	switch e.Kind {
	case events.KindSensors:
		if d, ok := e.Data.(*api.SensorCurrent); ok {
			return msgs.SensorsMsg{Data: d}
		}
	case events.KindRelays:
		if d, ok := e.Data.(*api.RelayState); ok {
			return msgs.RelaysMsg{Data: d}
		}
	case events.KindStatus:
		if d, ok := e.Data.(*api.SystemStatus); ok {
			return msgs.StatusMsg{Data: d}
		}
	case events.KindError:
		if d, ok := e.Data.(string); ok {
			return msgs.ConnectivityMsg{Err: d}
		}
	case events.KindNotification:
		if d, ok := e.Data.([]notify.Notification); ok {
			return msgs.NotificationsMsg{List: d}
		}
	}
	return nil
}

// Start launches the event watcher goroutine. It only calls p.Send and never
// touches model state. The returned func cancels the watcher and waits for
// it to exit, so no message is sent after it returns.
func Start(ctx context.Context, p Sender, bus *events.Bus) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	sub := bus.Subscribe(64)

	wg.Go(func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if msg := Translate(ev); msg != nil {
					p.Send(msg)
				}
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}
