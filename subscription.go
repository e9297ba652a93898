package conflate

import (
	"context"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Subscription is the handle returned by Engine.Subscribe.
type Subscription[K comparable, V any] struct {
	engine    *Engine[K, V]
	fn        func(K, V)
	cancelled atomic.Bool
}

// Cancel removes the callback from the engine. Cancellation takes effect
// before the next flush begins; a flush whose subscriber snapshot was taken
// before Cancel may still invoke the callback for its remaining pairs.
//
// Cancel is idempotent and safe to call from any goroutine, including from
// inside a subscriber callback.
func (s *Subscription[K, V]) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}

	e := s.engine
	e.mu.Lock()
	for i, sub := range e.subs {
		if sub == s {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			break
		}
	}
	n := len(e.subs)
	e.mu.Unlock()

	capitan.Emit(context.Background(), SubscriberRemoved,
		KeySubscribers.Field(n),
	)
}

// Cancelled reports whether the subscription has been cancelled.
func (s *Subscription[K, V]) Cancelled() bool {
	return s.cancelled.Load()
}
