// Package notify keeps the ordered list of short-lived user notifications
// (toasts). Every notification removes itself after TTL unless removed
// earlier.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/germanamz/terrarium/pkg/events"
	"github.com/germanamz/terrarium/pkg/state"
	"go.uber.org/zap"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 4000 * time.Millisecond

// Category classifies a notification for styling.
type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Info    Category = "info"
)

// Notification is one visible message.
type Notification struct {
	ID       uint64   `json:"id"`
	Message  string   `json:"message"`
	Category Category `json:"category"`
}

// Timer is the handle returned by AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Options tunes an Emitter. Zero values fall back to defaults.
type Options struct {
	TTL       time.Duration
	AfterFunc AfterFunc
	Events    *events.Bus
	Log       *zap.SugaredLogger
}

// Emitter owns the notification list. It is safe for concurrent use.
type Emitter struct {
	// List is the visible notifications in insertion order. Readers must not
	// mutate the returned slice.
	List *state.Value[[]Notification]

	opts Options

	mu     sync.Mutex
	nextID uint64
	timers map[uint64]Timer
}

// New creates an empty Emitter.
func New(opts Options) *Emitter {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}

	return &Emitter{
		List:   state.NewValue[[]Notification](nil),
		opts:   opts,
		timers: make(map[uint64]Timer),
	}
}

// Success adds a success notification and returns its id.
func (e *Emitter) Success(msg string) uint64 { return e.add(Success, msg) }

// Error adds an error notification and returns its id.
func (e *Emitter) Error(msg string) uint64 { return e.add(Error, msg) }

// Info adds an informational notification and returns its id.
func (e *Emitter) Info(msg string) uint64 { return e.add(Info, msg) }

func (e *Emitter) add(cat Category, msg string) uint64 {
	e.mu.Lock()
	e.nextID++
	n := Notification{ID: e.nextID, Message: msg, Category: cat}

	e.List.Update(func(cur []Notification) []Notification {
		next := make([]Notification, 0, len(cur)+1)
		return append(append(next, cur...), n)
	})
	e.timers[n.ID] = e.opts.AfterFunc(e.opts.TTL, func() { e.Remove(n.ID) })
	e.mu.Unlock()

	e.opts.Log.Debugw("notification_added", "id", n.ID, "category", cat, "message", msg)
	e.opts.Events.Publish(events.KindNotification, e.Snapshot())

	return n.ID
}

// Remove deletes the notification with id. Unknown ids are ignored.
func (e *Emitter) Remove(id uint64) {
	e.mu.Lock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}

	removed := false
	cur := e.List.Get()
	idx := slices.IndexFunc(cur, func(n Notification) bool { return n.ID == id })
	if idx >= 0 {
		next := make([]Notification, 0, len(cur)-1)
		next = append(append(next, cur[:idx]...), cur[idx+1:]...)
		e.List.Set(next)
		removed = true
	}
	e.mu.Unlock()

	if removed {
		e.opts.Events.Publish(events.KindNotification, e.Snapshot())
	}
}

// Snapshot returns a copy of the visible notifications.
func (e *Emitter) Snapshot() []Notification {
	return slices.Clone(e.List.Get())
}

// Close cancels all pending expiry timers. The list is left as is.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
}
