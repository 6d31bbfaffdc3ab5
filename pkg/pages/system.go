package pages

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/germanamz/terrarium/pkg/api"
	"github.com/germanamz/terrarium/pkg/state"
	"go.uber.org/zap"
)

// DefaultLogPageSize is the number of relay log entries per page.
const DefaultLogPageSize = 50

// FormatUptime renders seconds as "1h 5m", "5m 3s" or "42s".
func FormatUptime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// System pages through the relay audit log.
type System struct {
	Logs        *state.Value[[]api.RelayLogEntry]
	LogsLoading *state.Value[bool]

	backend  Backend
	log      *zap.SugaredLogger
	pageSize int

	// mu guards offset and gen; it is never held across a request.
	mu       sync.Mutex
	offset   int
	gen      uint64
	lastPage atomic.Int64
}

// NewSystem creates the system page controller. pageSize <= 0 uses
// DefaultLogPageSize.
func NewSystem(b Backend, pageSize int, log *zap.SugaredLogger) *System {
	if pageSize <= 0 {
		pageSize = DefaultLogPageSize
	}
	return &System{
		Logs:        state.NewValue[[]api.RelayLogEntry](nil),
		LogsLoading: state.NewValue(true),
		backend:     b,
		log:         nopLog(log),
		pageSize:    pageSize,
	}
}

// LoadLogs fetches the page at the current offset and appends it. A page
// requested before a Reset is discarded.
func (s *System) LoadLogs(ctx context.Context) {
	s.mu.Lock()
	offset, gen := s.offset, s.gen
	s.mu.Unlock()

	page, err := s.backend.RelayLogs(ctx, api.LogQuery{Limit: s.pageSize, Offset: offset})

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debugw("relay_logs_superseded", "offset", offset)
		return
	}
	defer s.LogsLoading.Set(false)

	if err != nil {
		s.log.Warnw("relay_logs_load_failed", "offset", offset, "err", err)
		return
	}

	s.lastPage.Store(int64(len(page)))
	s.Logs.Update(func(cur []api.RelayLogEntry) []api.RelayLogEntry {
		next := make([]api.RelayLogEntry, 0, len(cur)+len(page))
		return append(append(next, cur...), page...)
	})
}

// Reset drops every loaded entry and rewinds to the first page.
func (s *System) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.offset = 0
	s.lastPage.Store(0)
	s.Logs.Set(nil)
	s.LogsLoading.Set(true)
}

// LoadMore advances one page and loads it.
func (s *System) LoadMore(ctx context.Context) {
	s.mu.Lock()
	s.offset += s.pageSize
	s.mu.Unlock()

	s.LoadLogs(ctx)
}

// HasMore reports whether the last loaded page was full, i.e. another page
// may exist.
func (s *System) HasMore() bool {
	return s.lastPage.Load() >= int64(s.pageSize)
}

// Offset returns the offset of the most recently requested page.
func (s *System) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}
