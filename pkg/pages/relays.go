package pages

import (
	"context"
	"fmt"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/state"
	"go.uber.org/zap"
)

// Relays implements manual relay control.
type Relays struct {
	// Switching is true while a toggle request is in flight.
	Switching *state.Value[bool]

	backend Backend
	notify  Notifier
	log     *zap.SugaredLogger
}

// NewRelays creates the relay page controller.
func NewRelays(b Backend, n Notifier, log *zap.SugaredLogger) *Relays {
	return &Relays{
		Switching: state.NewValue(false),
		backend:   b,
		notify:    n,
		log:       nopLog(log),
	}
}

// CanToggle reports whether the button that would set id to target is
// enabled: only in MANUAL mode, not while another toggle is in flight, and
// not when the relay is already in that state.
func (r *Relays) CanToggle(mode api.Mode, current *api.RelayState, id api.RelayID, target bool) bool {
	if mode != api.ModeManual || r.Switching.Get() {
		return false
	}
	return RelayOn(current, id) != target
}

// Toggle switches relay id on or off.
func (r *Relays) Toggle(ctx context.Context, id api.RelayID, on bool) {
	r.Switching.Set(true)
	defer r.Switching.Set(false)

	if _, err := r.backend.ToggleRelay(ctx, id, on); err != nil {
		r.log.Warnw("relay_toggle_failed", "relay", id, "state", on, "err", err)
		r.notify.Error(api.Message(err, "failed to toggle relay"))
		return
	}

	word := "off"
	if on {
		word = "on"
	}
	r.notify.Success(fmt.Sprintf("%s %s", id.Label(), word))
}

// SwitchToManual enables manual control.
func (r *Relays) SwitchToManual(ctx context.Context) {
	if err := r.backend.SetMode(ctx, api.ModeManual); err != nil {
		r.log.Warnw("set_mode_failed", "mode", api.ModeManual, "err", err)
		r.notify.Error("failed to switch mode")
		return
	}
	r.notify.Success("mode switched to MANUAL")
}
