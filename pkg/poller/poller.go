// Package poller keeps the latest sensor, relay and system snapshots in sync
// with the controller. Three independent cycles poll on fixed intervals; a
// newer fetch always supersedes an older one that is still in flight.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/state"
	"go.uber.org/zap"
)

// SensorError is recorded in LastError when a sensor fetch fails.
const SensorError = "failed to fetch sensor data"

const (
	DefaultInterval       = 5 * time.Second
	DefaultStatusInterval = 15 * time.Second
)

// Source is the subset of the API the synchronizer reads.
type Source interface {
	SensorCurrent(ctx context.Context) (*api.SensorCurrent, error)
	Relays(ctx context.Context) (*api.RelayState, error)
	SystemStatus(ctx context.Context) (*api.SystemStatus, error)
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker is the default TickerFunc backed by time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Options tunes a Synchronizer. Zero values fall back to defaults.
type Options struct {
	Interval       time.Duration
	StatusInterval time.Duration
	NewTicker      TickerFunc
	Log            *zap.SugaredLogger
	Events         *events.Bus
}

func (o *Options) applyDefaults() {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.StatusInterval <= 0 {
		o.StatusInterval = DefaultStatusInterval
	}
	if o.NewTicker == nil {
		o.NewTicker = NewTimeTicker
	}
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
}

// cycle is one polling loop. gen and cancel are guarded by Synchronizer.mu.
type cycle struct {
	name     string
	interval time.Duration
	fetch    func(ctx context.Context) (any, error)
	apply    func(v any)
	fail     func(err error)

	gen    uint64
	cancel context.CancelFunc
}

// Synchronizer owns the polled state. Only it writes the exported values;
// everyone else reads them.
type Synchronizer struct {
	Sensors   *state.Value[*api.SensorCurrent]
	Relays    *state.Value[*api.RelayState]
	Status    *state.Value[*api.SystemStatus]
	Loading   *state.Value[bool]
	LastError *state.Value[string]

	src  Source
	opts Options

	mu      sync.Mutex
	stop    chan struct{}
	loops   sync.WaitGroup
	fetches sync.WaitGroup
	cycles  []*cycle
}

// New creates a stopped Synchronizer reading from src.
func New(src Source, opts Options) *Synchronizer {
	opts.applyDefaults()

	s := &Synchronizer{
		Sensors:   state.NewValue[*api.SensorCurrent](nil),
		Relays:    state.NewValue[*api.RelayState](nil),
		Status:    state.NewValue[*api.SystemStatus](nil),
		Loading:   state.NewValue(true),
		LastError: state.NewValue(""),
		src:       src,
		opts:      opts,
	}

	s.cycles = []*cycle{
		{
			name:     "sensors",
			interval: opts.Interval,
			fetch: func(ctx context.Context) (any, error) {
				return src.SensorCurrent(ctx)
			},
			apply: func(v any) {
				data := v.(*api.SensorCurrent)
				s.Sensors.Set(data)
				s.LastError.Set("")
				s.Loading.Set(false)
				opts.Events.Publish(events.KindSensors, data)
				opts.Events.Publish(events.KindError, "")
			},
			fail: func(err error) {
				opts.Log.Warnw("sensor_fetch_failed", "err", err)
				s.LastError.Set(SensorError)
				opts.Events.Publish(events.KindError, SensorError)
			},
		},
		{
			name:     "relays",
			interval: opts.Interval,
			fetch: func(ctx context.Context) (any, error) {
				return src.Relays(ctx)
			},
			apply: func(v any) {
				data := v.(*api.RelayState)
				s.Relays.Set(data)
				opts.Events.Publish(events.KindRelays, data)
			},
			fail: func(err error) {
				opts.Log.Debugw("relay_fetch_failed", "err", err)
			},
		},
		{
			name:     "status",
			interval: opts.StatusInterval,
			fetch: func(ctx context.Context) (any, error) {
				return src.SystemStatus(ctx)
			},
			apply: func(v any) {
				data := v.(*api.SystemStatus)
				s.Status.Set(data)
				opts.Events.Publish(events.KindStatus, data)
			},
			fail: func(err error) {
				opts.Log.Debugw("status_fetch_failed", "err", err)
			},
		},
	}

	return s
}

// Running reports whether the cycles are active.
func (s *Synchronizer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Start begins all cycles. Calling Start while running is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}

	stop := make(chan struct{})
	s.stop = stop

	for _, c := range s.cycles {
		s.loops.Add(1)
		go s.run(c, stop)
	}

	s.opts.Log.Infow("poller_started", "interval", s.opts.Interval, "status_interval", s.opts.StatusInterval)
}

// Stop halts all cycles. No fetch issued before Stop mutates state after it
// returns. Stop is idempotent and the Synchronizer may be started again.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}

	close(s.stop)
	s.stop = nil

	for _, c := range s.cycles {
		c.gen++
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
	}
	s.mu.Unlock()

	s.loops.Wait()
	s.opts.Log.Infow("poller_stopped")
}

// Wait blocks until every fetch goroutine has returned. Intended for
// shutdown after Stop.
func (s *Synchronizer) Wait() {
	s.fetches.Wait()
}

func (s *Synchronizer) run(c *cycle, stop <-chan struct{}) {
	defer s.loops.Done()

	ticker := s.opts.NewTicker(c.interval)
	defer ticker.Stop()

	s.issue(c, stop)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			s.issue(c, stop)
		}
	}
}

// issue starts a fetch that supersedes whatever the cycle has in flight.
func (s *Synchronizer) issue(c *cycle, stop <-chan struct{}) {
	s.mu.Lock()
	if s.stop == nil || s.stop != stop {
		s.mu.Unlock()
		return
	}

	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	s.fetches.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.fetches.Done()
		defer cancel()

		v, err := c.fetch(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if gen != c.gen {
			s.opts.Log.Debugw("fetch_superseded", "cycle", c.name, "gen", gen)
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.fail(err)
			return
		}
		c.apply(v)
	}()
}
