// Package mirror republishes the synchronizer's state for headless consumers:
// an HTTP snapshot endpoint, a websocket event stream and an optional MQTT
// sink.
package mirror

import (
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/poller"
)

// Snapshot is the full polled state at one instant.
type Snapshot struct {
	Sensors   *api.SensorCurrent `json:"sensors"`
	Relays    *api.RelayState    `json:"relays"`
	Status    *api.SystemStatus  `json:"status"`
	Loading   bool               `json:"loading"`
	LastError string             `json:"last_error,omitempty"`
	Online    bool               `json:"online"`
}

// SnapshotOf reads every value of s.
func SnapshotOf(s *poller.Synchronizer) Snapshot {
	lastErr := s.LastError.Get()
	return Snapshot{
		Sensors:   s.Sensors.Get(),
		Relays:    s.Relays.Get(),
		Status:    s.Status.Get(),
		Loading:   s.Loading.Get(),
		LastError: lastErr,
		Online:    lastErr == "",
	}
}
