package api

import "time"

// Mode is the global automation mode of the controller.
type Mode string

const (
	ModeAuto   Mode = "AUTO"
	ModeManual Mode = "MANUAL"
)

// Valid reports whether m is one of the modes the backend accepts.
func (m Mode) Valid() bool {
	return m == ModeAuto || m == ModeManual
}

// RelayID names one of the four controllable outputs.
type RelayID string

const (
	RelayHeatMat RelayID = "heat_mat"
	RelayFogger  RelayID = "fogger"
	RelayLight   RelayID = "light"
	RelaySpare   RelayID = "spare"
)

// RelayIDs lists every relay in display order.
var RelayIDs = []RelayID{RelayHeatMat, RelayFogger, RelayLight, RelaySpare}

// Label returns the short display label of the relay.
func (id RelayID) Label() string {
	switch id {
	case RelayHeatMat:
		return "Heat"
	case RelayFogger:
		return "Fog"
	case RelayLight:
		return "Light"
	case RelaySpare:
		return "Spare"
	default:
		return string(id)
	}
}

// Icon returns the glyph shown next to the relay label.
func (id RelayID) Icon() string {
	switch id {
	case RelayHeatMat:
		return "🔥"
	case RelayFogger:
		return "💨"
	case RelayLight:
		return "💡"
	case RelaySpare:
		return "🔌"
	default:
		return "•"
	}
}

// ParseRelayID validates s against the known relay ids.
func ParseRelayID(s string) (RelayID, bool) {
	for _, id := range RelayIDs {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

// SensorCurrent is the latest reading from both climate zones.
type SensorCurrent struct {
	WarmTemp  float64   `json:"warm_temp"`
	WarmHum   float64   `json:"warm_hum"`
	ColdTemp  float64   `json:"cold_temp"`
	ColdHum   float64   `json:"cold_hum"`
	Timestamp time.Time `json:"timestamp"`
	Mode      Mode      `json:"mode"`
}

// SensorRecord is one historical sample.
type SensorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	WarmTemp  float64   `json:"warm_temp"`
	WarmHum   float64   `json:"warm_hum"`
	ColdTemp  float64   `json:"cold_temp"`
	ColdHum   float64   `json:"cold_hum"`
}

// RelayState is the electrical state of every relay.
type RelayState struct {
	HeatMat bool `json:"heat_mat"`
	Fogger  bool `json:"fogger"`
	Light   bool `json:"light"`
	Spare   bool `json:"spare"`
}

// Get returns the state of a single relay. Unknown ids report false.
func (r RelayState) Get(id RelayID) bool {
	switch id {
	case RelayHeatMat:
		return r.HeatMat
	case RelayFogger:
		return r.Fogger
	case RelayLight:
		return r.Light
	case RelaySpare:
		return r.Spare
	default:
		return false
	}
}

// AutomationConfig holds the thresholds the controller regulates against.
type AutomationConfig struct {
	WarmTargetMin         float64 `json:"warm_target_min" yaml:"warm_target_min"`
	WarmTargetMax         float64 `json:"warm_target_max" yaml:"warm_target_max"`
	ColdMaxThreshold      float64 `json:"cold_max_threshold" yaml:"cold_max_threshold"`
	EmergencyMaxThreshold float64 `json:"emergency_max_threshold" yaml:"emergency_max_threshold"`
	HumidityMin           float64 `json:"humidity_min" yaml:"humidity_min"`
	HumidityMax           float64 `json:"humidity_max" yaml:"humidity_max"`
	HysteresisTemp        float64 `json:"hysteresis_temp" yaml:"hysteresis_temp"`
	HysteresisHum         float64 `json:"hysteresis_hum" yaml:"hysteresis_hum"`
}

// SystemStatus reports backend health.
type SystemStatus struct {
	Uptime   int64  `json:"uptime"`
	Mode     Mode   `json:"mode"`
	DBStatus string `json:"db_status"`
}

// Schedule is a daily on/off window for one relay.
type Schedule struct {
	ID        string    `json:"id"`
	RelayID   RelayID   `json:"relay_id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleRequest creates or updates a schedule. A nil IsActive lets the
// backend apply its default.
type ScheduleRequest struct {
	RelayID   RelayID `json:"relay_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// EnergyReport is the per-day energy consumption per relay.
type EnergyReport struct {
	Date       string  `json:"report_date"`
	HeatMatKwh float64 `json:"heat_mat_kwh"`
	LightKwh   float64 `json:"light_kwh"`
	FoggerKwh  float64 `json:"fogger_kwh"`
	SpareKwh   float64 `json:"spare_kwh"`
	TotalKwh   float64 `json:"total_kwh"`
}

// RelayLogEntry is one audit record of a relay switching.
type RelayLogEntry struct {
	ID         string    `json:"id"`
	RelayID    RelayID   `json:"relay_id"`
	State      bool      `json:"state"`
	Reason     string    `json:"reason"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Ack is the acknowledgement body returned by mutating endpoints.
type Ack struct {
	Msg string `json:"msg"`
}

type toggleRequest struct {
	State bool `json:"state"`
}

type modeRequest struct {
	Mode Mode `json:"mode"`
}
