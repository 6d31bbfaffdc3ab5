package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValue(t *testing.T) {
	var v Value[*int]

	assert.Nil(t, v.Get())
	assert.Equal(t, uint64(0), v.Version())
}

func TestNewValue(t *testing.T) {
	v := NewValue(true)

	assert.True(t, v.Get())
	assert.Equal(t, uint64(0), v.Version())
}

func TestSetOverwrite(t *testing.T) {
	v := NewValue("")

	v.Set("a")
	v.Set("b")

	assert.Equal(t, "b", v.Get())
	assert.Equal(t, uint64(2), v.Version())
}

func TestUpdate(t *testing.T) {
	v := NewValue([]int{1})

	v.Update(func(s []int) []int { return append(s, 2) })

	assert.Equal(t, []int{1, 2}, v.Get())
}

func TestChangedClosesOnSet(t *testing.T) {
	v := NewValue(0)
	ch := v.Changed()

	select {
	case <-ch:
		t.Fatal("closed before Set")
	default:
	}

	v.Set(1)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("not closed after Set")
	}
}

func TestWatchReturnsImmediatelyWhenNewer(t *testing.T) {
	v := NewValue(0)
	v.Set(7)

	got, ver, err := v.Watch(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, uint64(1), ver)
}

func TestWatchBlocksUntilSet(t *testing.T) {
	v := NewValue(0)

	var wg sync.WaitGroup
	wg.Add(1)

	var got int
	go func() {
		defer wg.Done()
		got, _, _ = v.Watch(context.Background(), 0)
	}()

	time.Sleep(20 * time.Millisecond)
	v.Set(42)
	wg.Wait()

	assert.Equal(t, 42, got)
}

func TestWatchContextCancelled(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := v.Watch(ctx, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrentAccess(t *testing.T) {
	v := NewValue(0)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Set(i)
		}()
		go func() {
			defer wg.Done()
			_ = v.Get()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), v.Version())
}
