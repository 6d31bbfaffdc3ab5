package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/germanamz/terrarium/pkg/api"
	"go.uber.org/zap"
)

// Dashboard implements the quick actions of the overview page.
type Dashboard struct {
	backend Backend
	notify  Notifier
	log     *zap.SugaredLogger

	toggles sync.WaitGroup
}

// NewDashboard creates the dashboard controller.
func NewDashboard(b Backend, n Notifier, log *zap.SugaredLogger) *Dashboard {
	return &Dashboard{backend: b, notify: n, log: nopLog(log)}
}

// SetMode switches the controller to mode.
func (d *Dashboard) SetMode(ctx context.Context, mode api.Mode) {
	if err := d.backend.SetMode(ctx, mode); err != nil {
		d.log.Warnw("set_mode_failed", "mode", mode, "err", err)
		d.notify.Error("failed to switch mode")
		return
	}
	d.notify.Success(fmt.Sprintf("mode switched to %s", mode))
}

// AllOff switches to MANUAL and then turns every relay off. The toggles are
// not awaited; individual failures are only logged. Use Wait to block until
// they have all returned.
func (d *Dashboard) AllOff(ctx context.Context) {
	if err := d.backend.SetMode(ctx, api.ModeManual); err != nil {
		d.log.Warnw("all_off_failed", "err", err)
		d.notify.Error("failed to turn relays off")
		return
	}

	bg := context.WithoutCancel(ctx)
	for _, id := range api.RelayIDs {
		d.toggles.Add(1)
		go func() {
			defer d.toggles.Done()
			if _, err := d.backend.ToggleRelay(bg, id, false); err != nil {
				d.log.Warnw("all_off_toggle_failed", "relay", id, "err", err)
			}
		}()
	}

	d.notify.Info("all relays off (MANUAL mode)")
}

// Wait blocks until every toggle issued by AllOff has returned.
func (d *Dashboard) Wait() {
	d.toggles.Wait()
}
