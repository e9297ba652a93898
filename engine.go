package conflate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Engine conflates a stream of keyed updates: producers Ingest at arbitrary
// rates from arbitrary goroutines, and every interval the engine drains its
// buffer and delivers the latest value per key to each subscriber.
//
// All flushes, timer-driven and the final drain in Stop alike, execute on a
// single goroutine, so no two delivery loops ever overlap. Delivery happens
// against a detached snapshot of the buffer, outside any lock, so a slow
// subscriber never blocks producers.
type Engine[K comparable, V any] struct {
	buffer   *Buffer[K, V]
	interval time.Duration
	clock    clockz.Clock
	metrics  MetricsProvider
	history  *errorRing

	state atomic.Int32

	mu            sync.Mutex
	subs          []*Subscription[K, V]
	started       bool
	stopRequested bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates an Engine that flushes at the given interval. The interval
// must be positive; New returns ErrInvalidInterval otherwise.
//
// The engine accepts Ingest and Subscribe immediately, but no flush occurs
// until Start is called.
func New[K comparable, V any](interval time.Duration, opts ...Option) (*Engine[K, V], error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	cfg := &config{
		clock:         clockz.RealClock,
		metrics:       NoOpMetricsProvider{},
		errorCapacity: DefaultErrorCapacity,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Engine[K, V]{
		buffer:   NewBuffer[K, V](),
		interval: interval,
		clock:    cfg.clock,
		metrics:  cfg.metrics,
		history:  newErrorRing(cfg.errorCapacity),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	e.state.Store(int32(StateCreated))

	return e, nil
}

// State returns the current state of the Engine.
func (e *Engine[K, V]) State() State {
	return State(e.state.Load())
}

// Interval returns the configured flush interval.
func (e *Engine[K, V]) Interval() time.Duration {
	return e.interval
}

// RecentErrors returns recent subscriber callback failures, oldest first.
// History is bounded by WithErrorCapacity.
func (e *Engine[K, V]) RecentErrors() []error {
	return e.history.all()
}

// Start begins the flush loop. It can only be called once; starting an
// already-started or stopped engine returns an error.
//
// Cancelling ctx behaves like Stop: the loop performs one final drain before
// exiting, so buffered values are not lost. Unlike Stop, ctx cancellation
// does not block the caller.
func (e *Engine[K, V]) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.stopRequested || State(e.state.Load()) == StateStopped {
		e.mu.Unlock()
		return ErrStopped
	}
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("conflate: engine already started")
	}
	e.started = true
	e.state.Store(int32(StateRunning))
	e.mu.Unlock()

	capitan.Emit(ctx, EngineStarted,
		KeyInterval.Field(e.interval),
	)

	go e.run(ctx)

	return nil
}

// Stop cancels the flush timer, performs one final synchronous drain of any
// remaining buffered values, then releases all subscriber references and
// marks the engine terminal. No scheduled flush fires after Stop returns.
//
// Stop is idempotent: a second call has no additional effect. Values
// ingested concurrently with Stop may or may not be included in the final
// drain; values ingested strictly before always are.
func (e *Engine[K, V]) Stop() {
	e.mu.Lock()
	e.stopRequested = true
	started := e.started
	e.mu.Unlock()

	e.stopOnce.Do(func() {
		close(e.stopCh)
	})

	if started {
		// The flush loop performs the final drain before closing doneCh.
		<-e.doneCh
		return
	}

	// Never started: no loop exists to run the final drain.
	if e.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
		e.finalize(context.Background())
	}
}

// Ingest records value as the pending update for key, replacing any value
// buffered for that key since the last flush. It is safe to call from any
// number of goroutines and never blocks on delivery.
//
// After Stop, Ingest drops the value and returns ErrStopped.
func (e *Engine[K, V]) Ingest(key K, value V) error {
	if e.State() == StateStopped {
		e.metrics.OnIngestDropped()
		return ErrStopped
	}
	e.buffer.Put(key, value)
	e.metrics.OnIngest()
	return nil
}

// Subscribe registers a callback invoked once per (key, value) pair on every
// flush that occurs after registration. Subscribers are independent: each
// receives the full flushed sequence, in registration order for a given key.
//
// A callback that panics is recovered and recorded (see RecentErrors); it
// cannot prevent delivery to other subscribers or other keys.
//
// Subscribing to a stopped engine returns an inert, already-cancelled handle
// that will never receive a flush.
func (e *Engine[K, V]) Subscribe(fn func(K, V)) *Subscription[K, V] {
	sub := &Subscription[K, V]{engine: e, fn: fn}

	e.mu.Lock()
	if e.stopRequested || State(e.state.Load()) == StateStopped {
		e.mu.Unlock()
		sub.cancelled.Store(true)
		return sub
	}
	e.subs = append(e.subs, sub)
	n := len(e.subs)
	e.mu.Unlock()

	capitan.Emit(context.Background(), SubscriberAdded,
		KeySubscribers.Field(n),
	)

	return sub
}

// run is the flush loop. All delivery, including the final drain, happens
// here, which is what guarantees flushes never overlap.
func (e *Engine[K, V]) run(ctx context.Context) {
	defer close(e.doneCh)

	timer := e.clock.NewTimer(e.interval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C():
			e.flush(ctx)
			// Re-arm after delivery returns: a flush slower than the
			// interval delays the next flush rather than stacking it.
			timer.Reset(e.interval)
			continue

		case <-e.stopCh:
		case <-ctx.Done():
		}

		e.state.Store(int32(StateStopped))
		e.finalize(ctx)
		return
	}
}

// finalize performs the final drain-and-deliver and releases subscribers.
func (e *Engine[K, V]) finalize(ctx context.Context) {
	e.flush(ctx)

	e.mu.Lock()
	e.subs = nil
	e.mu.Unlock()

	capitan.Emit(ctx, EngineStopped,
		KeyState.Field(e.State().String()),
	)
}

// flush drains the buffer and delivers each pair to a snapshot of the
// current subscribers. An empty drain is silent: no subscriber is invoked
// and no signal is emitted.
func (e *Engine[K, V]) flush(ctx context.Context) {
	drained := e.buffer.Drain()
	if len(drained) == 0 {
		return
	}

	subs := e.snapshot()
	start := e.clock.Now()

	for key, value := range drained {
		for _, sub := range subs {
			e.deliver(ctx, sub, key, value)
		}
	}

	elapsed := e.clock.Since(start)
	e.metrics.OnFlush(len(drained), elapsed)
	capitan.Emit(ctx, FlushDelivered,
		KeyFlushedKeys.Field(len(drained)),
		KeySubscribers.Field(len(subs)),
		KeyFlushDuration.Field(elapsed),
	)
}

// snapshot copies the subscriber list in registration order. Cancellations
// after this point take effect on the next flush; the current flush still
// delivers to every subscriber in the snapshot.
func (e *Engine[K, V]) snapshot() []*Subscription[K, V] {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := make([]*Subscription[K, V], len(e.subs))
	copy(subs, e.subs)
	return subs
}

// deliver invokes one callback for one pair, isolating panics so a failing
// subscriber cannot abort the rest of the flush.
func (e *Engine[K, V]) deliver(ctx context.Context, sub *Subscription[K, V], key K, value V) {
	defer func() {
		if r := recover(); r != nil {
			err := &SubscriberError{Recovered: r}
			e.history.push(err)
			e.metrics.OnSubscriberPanic()
			capitan.Emit(ctx, SubscriberPanicked,
				KeyError.Field(err.Error()),
			)
		}
	}()
	sub.fn(key, value)
}
