// Package events fans out change notifications from the synchronizer and the
// notification emitter to any number of readers (the TUI bridge, the mirror
// stream, the MQTT sink).
package events

import (
	"sync"
	"time"
)

// Kind identifies what changed.
type Kind string

const (
	KindSensors      Kind = "sensors"
	KindRelays       Kind = "relays"
	KindStatus       Kind = "status"
	KindError        Kind = "error"
	KindLoading      Kind = "loading"
	KindNotification Kind = "notification"
)

// Event is an immutable notification. Data carries the new value for the
// kind, e.g. *api.SensorCurrent for KindSensors or string for KindError.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Data      any
}

// Subscription receives events from a Bus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// Bus fans out events to all active subscribers. It is safe for concurrent
// use. A nil *Bus discards everything.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
	now  func() time.Time
}

// NewBus creates a Bus ready for use.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
		now:  time.Now,
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *Bus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish stamps and sends an event to all subscribers. A subscriber whose
// buffer is full misses the event; the synchronizer never blocks on a slow
// reader.
func (b *Bus) Publish(kind Kind, data any) {
	if b == nil {
		return
	}

	e := Event{Kind: kind, Timestamp: b.now(), Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
