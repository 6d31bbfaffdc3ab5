package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/pages"
	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusReport is the combined one-shot view printed by `terrarium status`.
type statusReport struct {
	Sensors *api.SensorCurrent `json:"sensors"`
	Relays  *api.RelayState    `json:"relays"`
	System  *api.SystemStatus  `json:"system"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print current sensors, relays and system status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var rep statusReport
			if rep.Sensors, err = rt.client.SensorCurrent(ctx); err != nil {
				return err
			}
			if rep.Relays, err = rt.client.Relays(ctx); err != nil {
				return err
			}
			if rep.System, err = rt.client.SystemStatus(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, rep)
			}

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "Mode\t%s\n", rep.System.Mode)
			fmt.Fprintf(w, "Uptime\t%s\n", pages.FormatUptime(rep.System.Uptime))
			fmt.Fprintf(w, "Storage\t%s\n", rep.System.DBStatus)
			fmt.Fprintf(w, "Warm\t%.1f°C  %.0f%%\n", rep.Sensors.WarmTemp, rep.Sensors.WarmHum)
			fmt.Fprintf(w, "Cold\t%.1f°C  %.0f%%\n", rep.Sensors.ColdTemp, rep.Sensors.ColdHum)
			for _, id := range api.RelayIDs {
				state := "off"
				if rep.Relays.Get(id) {
					state = "on"
				}
				fmt.Fprintf(w, "%s\t%s\n", id.Label(), state)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newRelayCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Switch relays (MANUAL mode only)",
	}

	set := &cobra.Command{
		Use:       "set <id> on|off",
		Short:     "Switch one relay",
		Args:      cobra.ExactArgs(2),
		ValidArgs: relayIDStrings(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := api.ParseRelayID(args[0])
			if !ok {
				return fmt.Errorf("unknown relay %q (want one of %s)", args[0], strings.Join(relayIDStrings(), ", "))
			}

			var on bool
			switch strings.ToLower(args[1]) {
			case "on":
				on = true
			case "off":
			default:
				return fmt.Errorf("state must be on or off, got %q", args[1])
			}

			rt, err := opts.setup()
			if err != nil {
				return err
			}

			n := newCLINotifier(cmd)
			pages.NewRelays(rt.client, n, rt.log).Toggle(cmd.Context(), id, on)
			return n.err()
		},
	}

	allOff := &cobra.Command{
		Use:   "all-off",
		Short: "Switch to MANUAL and turn every relay off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup()
			if err != nil {
				return err
			}

			n := newCLINotifier(cmd)
			d := pages.NewDashboard(rt.client, n, rt.log)
			d.AllOff(cmd.Context())
			d.Wait()
			return n.err()
		},
	}

	cmd.AddCommand(set, allOff)
	return cmd
}

func relayIDStrings() []string {
	out := make([]string, 0, len(api.RelayIDs))
	for _, id := range api.RelayIDs {
		out = append(out, string(id))
	}
	return out
}

func newModeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "mode AUTO|MANUAL",
		Short:     "Switch the automation mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(api.ModeAuto), string(api.ModeManual)},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := api.Mode(strings.ToUpper(args[0]))
			if !mode.Valid() {
				return fmt.Errorf("mode must be AUTO or MANUAL, got %q", args[0])
			}

			rt, err := opts.setup()
			if err != nil {
				return err
			}

			n := newCLINotifier(cmd)
			pages.NewDashboard(rt.client, n, rt.log).SetMode(cmd.Context(), mode)
			return n.err()
		},
	}
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the relay switching log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = rt.cfg.Logs.PageSize
			}
			if offset < 0 {
				return errors.New("offset must not be negative")
			}

			entries, err := rt.client.RelayLogs(cmd.Context(), api.LogQuery{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, entries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tRELAY\tSTATE\tREASON")
			for _, e := range entries {
				state := "off"
				if e.State {
					state = "on"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.RecordedAt.Local().Format("2006-01-02 15:04:05"), e.RelayID, state, e.Reason)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "entries to fetch (default: logs.page_size)")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
