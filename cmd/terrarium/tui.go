package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/app"
	"github.com/germanamz/terrarium/cmd/terrarium/internal/msgs"
	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/logger"
	"github.com/germanamz/terrarium/pkg/notify"
	"github.com/germanamz/terrarium/pkg/pages"
	"github.com/germanamz/terrarium/pkg/poller"
	"github.com/spf13/cobra"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	// The dashboard owns the terminal, so logs go to a file.
	log, closeLog, err := logger.NewFile(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithLogger(log))
	bus := events.NewBus()

	syncer := poller.New(client, poller.Options{
		Interval:       cfg.Polling.Interval,
		StatusInterval: cfg.Polling.StatusInterval,
		Log:            log.Named("poller"),
		Events:         bus,
	})
	emitter := notify.New(notify.Options{
		TTL:    cfg.Notifications.TTL,
		Events: bus,
		Log:    log.Named("notify"),
	})
	defer emitter.Close()

	pageLog := log.Named("pages")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := app.New(ctx, app.Services{
		Sync:       syncer,
		Notify:     emitter,
		Events:     bus,
		Dashboard:  pages.NewDashboard(client, emitter, pageLog),
		Relays:     pages.NewRelays(client, emitter, pageLog),
		Automation: pages.NewAutomation(client, emitter, pageLog),
		History:    pages.NewHistory(client, cfg.History.Limit, pageLog),
		System:     pages.NewSystem(client, cfg.Logs.PageSize, pageLog),
		Log:        log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go p.Send(msgs.ProgramReadyMsg{Program: p})

	log.Infow("dashboard_starting", "base_url", client.BaseURL(), "version", version)
	syncer.Start()

	_, runErr := p.Run()
	interrupted := ctx.Err() != nil

	cancel()
	syncer.Stop()
	syncer.Wait()
	log.Infow("dashboard_stopped")

	if runErr != nil && !interrupted {
		return fmt.Errorf("dashboard: %w", runErr)
	}
	return nil
}
