package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/mirror"
	"github.com/germanamz/terrarium/pkg/poller"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout   = 5 * time.Second
	mqttDisconnectMs  = 250
	mqttSubscriberBuf = 32
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the controller and mirror its state over HTTP, WebSocket and MQTT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup()
			if err != nil {
				return err
			}
			if listen != "" {
				rt.cfg.Mirror.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, rt)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides mirror.listen")
	return cmd
}

// serve runs the mirror until ctx is done or the HTTP server fails.
func serve(ctx context.Context, rt *runtime) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := events.NewBus()
	syncer := poller.New(rt.client, poller.Options{
		Interval:       rt.cfg.Polling.Interval,
		StatusInterval: rt.cfg.Polling.StatusInterval,
		Log:            rt.log.Named("poller"),
		Events:         bus,
	})

	var wg sync.WaitGroup

	if mc := rt.cfg.Mirror.MQTT; mc.Broker != "" {
		client, err := mirror.Connect(mc, rt.log.Named("mqtt"))
		if err != nil {
			return err
		}
		defer client.Disconnect(mqttDisconnectMs)

		sink := mirror.NewSink(client, mc.TopicPrefix, rt.log.Named("mqtt"))
		sub := bus.Subscribe(mqttSubscriberBuf)
		wg.Go(func() {
			defer bus.Unsubscribe(sub)
			sink.Run(ctx, sub)
		})
	}

	handler := mirror.NewHandler(syncer, bus, rt.log.Named("http"))
	var srv mirror.Server

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(rt.cfg.Mirror.Listen, handler.InitRoutes())
	}()

	syncer.Start()
	rt.log.Infow("mirror_listening", "addr", rt.cfg.Mirror.Listen, "base_url", rt.client.BaseURL())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.log.Warnw("mirror_shutdown_failed", "err", err)
	}

	syncer.Stop()
	syncer.Wait()
	wg.Wait()
	rt.log.Infow("mirror_stopped")

	return runErr
}
