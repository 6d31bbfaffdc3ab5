// Package state provides observable values shared between the synchronizer,
// the notification emitter and their readers. A Value has a single writer by
// convention and any number of readers; readers either poll Get or wait for
// the next Set through Changed/Watch.
package state

import (
	"context"
	"sync"
)

// Value is a thread-safe observable cell. The zero value holds the zero T
// and is ready to use.
type Value[T any] struct {
	mu      sync.RWMutex
	once    sync.Once
	signal  chan struct{}
	v       T
	version uint64
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	v := &Value[T]{}
	v.init()
	v.v = initial
	return v
}

func (s *Value[T]) init() {
	s.once.Do(func() {
		s.signal = make(chan struct{})
	})
}

// Get returns the current value.
func (s *Value[T]) Get() T {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Version returns how many times the value has been set.
func (s *Value[T]) Version() uint64 {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set replaces the value and wakes every waiter.
func (s *Value[T]) Set(v T) {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v = v
	s.version++
	close(s.signal)
	s.signal = make(chan struct{})
}

// Update applies fn to the current value under the write lock.
func (s *Value[T]) Update(fn func(T) T) {
	s.init()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v = fn(s.v)
	s.version++
	close(s.signal)
	s.signal = make(chan struct{})
}

// Changed returns a channel closed on the next Set after the call.
func (s *Value[T]) Changed() <-chan struct{} {
	s.init()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signal
}

// Watch blocks until the value has been set more than after times, or ctx
// is done. It returns the value and its version so callers can loop:
//
//	v, ver, err := val.Watch(ctx, ver)
func (s *Value[T]) Watch(ctx context.Context, after uint64) (T, uint64, error) {
	s.init()

	for {
		s.mu.RLock()
		v, ver, sig := s.v, s.version, s.signal
		s.mu.RUnlock()

		if ver > after {
			return v, ver, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ver, ctx.Err()
		case <-sig:
		}
	}
}
