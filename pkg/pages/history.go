package pages

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/state"
	"go.uber.org/zap"
)

// DefaultHistoryLimit caps the number of samples per query.
const DefaultHistoryLimit = 500

// Range is a lookback window selectable on the history page.
type Range string

const (
	Range1h  Range = "1h"
	Range6h  Range = "6h"
	Range24h Range = "24h"
	Range7d  Range = "7d"
)

// Ranges lists the selectable windows in display order.
var Ranges = []Range{Range1h, Range6h, Range24h, Range7d}

// Duration returns the lookback of r. Unknown ranges use six hours.
func (r Range) Duration() time.Duration {
	switch r {
	case Range1h:
		return time.Hour
	case Range24h:
		return 24 * time.Hour
	case Range7d:
		return 7 * 24 * time.Hour
	default:
		return 6 * time.Hour
	}
}

// History loads sensor samples and energy reports.
type History struct {
	Range         *state.Value[Range]
	Records       *state.Value[[]api.SensorRecord]
	Loading       *state.Value[bool]
	Energy        *state.Value[[]api.EnergyReport]
	EnergyLoading *state.Value[bool]

	backend Backend
	log     *zap.SugaredLogger
	limit   int
	now     func() time.Time

	// mu guards the records generation and the cancel of the request in
	// flight.
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewHistory creates the history page controller. limit <= 0 uses
// DefaultHistoryLimit.
func NewHistory(b Backend, limit int, log *zap.SugaredLogger) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		Range:         state.NewValue(Range6h),
		Records:       state.NewValue[[]api.SensorRecord](nil),
		Loading:       state.NewValue(true),
		Energy:        state.NewValue[[]api.EnergyReport](nil),
		EnergyLoading: state.NewValue(true),
		backend:       b,
		log:           nopLog(log),
		limit:         limit,
		now:           time.Now,
	}
}

// SetRange selects r and reloads.
func (h *History) SetRange(ctx context.Context, r Range) {
	h.Range.Set(r)
	h.Load(ctx)
}

// Load fetches samples for the selected range and the energy reports
// concurrently.
func (h *History) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.loadRecords(ctx)
	}()
	go func() {
		defer wg.Done()
		h.loadEnergy(ctx)
	}()
	wg.Wait()
}

// loadRecords supersedes any records request still in flight: the older
// one is cancelled and its result is never applied.
func (h *History) loadRecords(ctx context.Context) {
	h.mu.Lock()
	h.gen++
	gen := h.gen
	if h.cancel != nil {
		h.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.mu.Unlock()
	defer cancel()

	h.Loading.Set(true)

	to := h.now()
	rng := h.Range.Get()
	from := to.Add(-rng.Duration())

	records, err := h.backend.SensorHistory(ctx, api.HistoryQuery{From: from, To: to, Limit: h.limit})

	h.mu.Lock()
	defer h.mu.Unlock()

	if gen != h.gen {
		h.log.Debugw("history_superseded", "range", rng)
		return
	}
	h.cancel = nil
	defer h.Loading.Set(false)

	if err != nil {
		h.log.Warnw("history_load_failed", "range", rng, "err", err)
		h.Records.Set(nil)
		return
	}

	// Backend returns newest first.
	slices.Reverse(records)
	h.Records.Set(records)
}

func (h *History) loadEnergy(ctx context.Context) {
	defer h.EnergyLoading.Set(false)

	reports, err := h.backend.EnergyReports(ctx, api.EnergyQuery{})
	if err != nil {
		h.log.Warnw("energy_load_failed", "err", err)
		return
	}
	h.Energy.Set(reports)
}
