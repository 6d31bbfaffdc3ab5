// Package controltools exposes controller API operations as toolbox tools so
// they can be served over MCP.
package controltools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/tools/toolbox"
)

// API is the subset of *api.Client the tools call.
type API interface {
	SensorCurrent(ctx context.Context) (*api.SensorCurrent, error)
	SensorHistory(ctx context.Context, q api.HistoryQuery) ([]api.SensorRecord, error)
	Relays(ctx context.Context) (*api.RelayState, error)
	ToggleRelay(ctx context.Context, id api.RelayID, on bool) (*api.Ack, error)
	SystemStatus(ctx context.Context) (*api.SystemStatus, error)
	SetMode(ctx context.Context, mode api.Mode) error
	Config(ctx context.Context) (*api.AutomationConfig, error)
	Schedules(ctx context.Context) ([]api.Schedule, error)
	EnergyReports(ctx context.Context, q api.EnergyQuery) ([]api.EnergyReport, error)
	RelayLogs(ctx context.Context, q api.LogQuery) ([]api.RelayLogEntry, error)
}

var _ API = (*api.Client)(nil)

// Tools returns a ToolBox with every controller tool.
func Tools(c API) *toolbox.ToolBox {
	t := &tools{api: c, now: time.Now}
	tb := toolbox.New()

	tb.Register(
		toolbox.Tool{
			Name:        "sensors_current",
			Description: "Read the latest temperature and humidity of the warm and cold zones, plus the current mode.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     t.sensorsCurrent,
		},
		toolbox.Tool{
			Name:        "sensors_history",
			Description: "Read historical sensor samples in chronological order for a lookback window.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"range":{"type":"string","enum":["1h","6h","24h","7d"],"description":"Lookback window (default 6h)"},"limit":{"type":"integer","description":"Maximum samples (default 500)"}}}`),
			Handler:     t.sensorsHistory,
		},
		toolbox.Tool{
			Name:        "relays_get",
			Description: "Read the on/off state of every relay (heat_mat, fogger, light, spare).",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     t.relaysGet,
		},
		toolbox.Tool{
			Name:        "relay_toggle",
			Description: "Switch one relay on or off. Only allowed in MANUAL mode.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"relay_id":{"type":"string","enum":["heat_mat","fogger","light","spare"]},"state":{"type":"boolean"}},"required":["relay_id","state"]}`),
			Handler:     t.relayToggle,
			Mutates:     true,
		},
		toolbox.Tool{
			Name:        "system_status",
			Description: "Read controller uptime in seconds, mode and database health.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     t.systemStatus,
		},
		toolbox.Tool{
			Name:        "system_mode_set",
			Description: "Switch the controller between AUTO and MANUAL mode.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"mode":{"type":"string","enum":["AUTO","MANUAL"]}},"required":["mode"]}`),
			Handler:     t.systemModeSet,
			Mutates:     true,
		},
		toolbox.Tool{
			Name:        "config_get",
			Description: "Read the automation thresholds and hysteresis settings.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     t.configGet,
		},
		toolbox.Tool{
			Name:        "schedules_list",
			Description: "List relay schedules.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler:     t.schedulesList,
		},
		toolbox.Tool{
			Name:        "energy_reports",
			Description: "Read daily energy consumption per relay in kWh.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"from":{"type":"string","format":"date-time"},"to":{"type":"string","format":"date-time"}}}`),
			Handler:     t.energyReports,
		},
		toolbox.Tool{
			Name:        "relay_logs",
			Description: "Read the relay switching audit log, newest first.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"limit":{"type":"integer"},"offset":{"type":"integer"}}}`),
			Handler:     t.relayLogs,
		},
	)

	return tb
}

type tools struct {
	api API
	now func() time.Time
}

func encode(v any, err error) (string, error) {
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

func decode(input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func (t *tools) sensorsCurrent(ctx context.Context, _ json.RawMessage) (string, error) {
	return encode(t.api.SensorCurrent(ctx))
}

type historyInput struct {
	Range string `json:"range"`
	Limit int    `json:"limit"`
}

func (t *tools) sensorsHistory(ctx context.Context, input json.RawMessage) (string, error) {
	var in historyInput
	if err := decode(input, &in); err != nil {
		return "", err
	}

	lookback, err := rangeDuration(in.Range)
	if err != nil {
		return "", err
	}
	if in.Limit <= 0 {
		in.Limit = 500
	}

	to := t.now()
	records, err := t.api.SensorHistory(ctx, api.HistoryQuery{From: to.Add(-lookback), To: to, Limit: in.Limit})
	if err != nil {
		return "", err
	}

	// Newest first on the wire.
	slices.Reverse(records)
	return encode(records, nil)
}

func rangeDuration(r string) (time.Duration, error) {
	switch r {
	case "1h":
		return time.Hour, nil
	case "", "6h":
		return 6 * time.Hour, nil
	case "24h":
		return 24 * time.Hour, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown range %q", r)
	}
}

func (t *tools) relaysGet(ctx context.Context, _ json.RawMessage) (string, error) {
	return encode(t.api.Relays(ctx))
}

type toggleInput struct {
	RelayID string `json:"relay_id"`
	State   *bool  `json:"state"`
}

func (t *tools) relayToggle(ctx context.Context, input json.RawMessage) (string, error) {
	var in toggleInput
	if err := decode(input, &in); err != nil {
		return "", err
	}

	id, ok := api.ParseRelayID(in.RelayID)
	if !ok {
		return "", fmt.Errorf("unknown relay %q", in.RelayID)
	}
	if in.State == nil {
		return "", errors.New("state is required")
	}

	ack, err := t.api.ToggleRelay(ctx, id, *in.State)
	if err != nil {
		return "", err
	}
	return ack.Msg, nil
}

func (t *tools) systemStatus(ctx context.Context, _ json.RawMessage) (string, error) {
	return encode(t.api.SystemStatus(ctx))
}

type modeInput struct {
	Mode api.Mode `json:"mode"`
}

func (t *tools) systemModeSet(ctx context.Context, input json.RawMessage) (string, error) {
	var in modeInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	if !in.Mode.Valid() {
		return "", fmt.Errorf("unknown mode %q", in.Mode)
	}

	if err := t.api.SetMode(ctx, in.Mode); err != nil {
		return "", err
	}
	return fmt.Sprintf("mode set to %s", in.Mode), nil
}

func (t *tools) configGet(ctx context.Context, _ json.RawMessage) (string, error) {
	return encode(t.api.Config(ctx))
}

func (t *tools) schedulesList(ctx context.Context, _ json.RawMessage) (string, error) {
	return encode(t.api.Schedules(ctx))
}

type energyInput struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (t *tools) energyReports(ctx context.Context, input json.RawMessage) (string, error) {
	var in energyInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	return encode(t.api.EnergyReports(ctx, api.EnergyQuery{From: in.From, To: in.To}))
}

type logsInput struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (t *tools) relayLogs(ctx context.Context, input json.RawMessage) (string, error) {
	var in logsInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}
	return encode(t.api.RelayLogs(ctx, api.LogQuery{Limit: in.Limit, Offset: in.Offset}))
}
