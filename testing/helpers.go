// Package testing provides test utilities and helpers for conflation engine
// testing in downstream code.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/tickflow/conflate"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the engine reaches the expected state or timeout
// occurs.
func WaitForState[K comparable, V any](t *testing.T, e *conflate.Engine[K, V], expected conflate.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return e.State() == expected
	})
}

// Recorder collects delivered pairs so tests can assert on conflated output.
// Its Callback is safe to register on engines flushed from another goroutine.
type Recorder[K comparable, V any] struct {
	mu    sync.Mutex
	pairs []conflate.Entry[K, V]
	last  map[K]V
}

// NewRecorder creates an empty Recorder.
func NewRecorder[K comparable, V any]() *Recorder[K, V] {
	return &Recorder[K, V]{
		last: make(map[K]V),
	}
}

// Callback returns the function to pass to Engine.Subscribe.
func (r *Recorder[K, V]) Callback() func(K, V) {
	return func(key K, value V) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.pairs = append(r.pairs, conflate.Entry[K, V]{Key: key, Value: value})
		r.last[key] = value
	}
}

// Len returns the number of pairs delivered so far.
func (r *Recorder[K, V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pairs)
}

// Pairs returns a copy of all delivered pairs in delivery order.
func (r *Recorder[K, V]) Pairs() []conflate.Entry[K, V] {
	r.mu.Lock()
	defer r.mu.Unlock()
	pairs := make([]conflate.Entry[K, V], len(r.pairs))
	copy(pairs, r.pairs)
	return pairs
}

// Last returns the most recently delivered value for key.
func (r *Recorder[K, V]) Last(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.last[key]
	return v, ok
}

// WaitForDeliveries waits until at least n pairs have been delivered.
func (r *Recorder[K, V]) WaitForDeliveries(t *testing.T, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return r.Len() >= n
	})
}
