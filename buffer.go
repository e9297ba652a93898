package conflate

import "sync"

// Buffer is a last-write-wins store of pending keyed values. Put overwrites
// any pending value for the same key; Drain atomically detaches everything
// pending and leaves the buffer empty.
//
// Put and Drain are safe to call from multiple goroutines. The critical
// section is a single map operation either way: Drain swaps the internal map
// out rather than copying it, so a slow consumer of the drained contents
// never holds up producers.
type Buffer[K comparable, V any] struct {
	mu      sync.Mutex
	pending map[K]V
}

// NewBuffer creates an empty Buffer.
func NewBuffer[K comparable, V any]() *Buffer[K, V] {
	return &Buffer[K, V]{
		pending: make(map[K]V),
	}
}

// Put records value as the pending update for key, replacing any previously
// pending value wholesale.
func (b *Buffer[K, V]) Put(key K, value V) {
	b.mu.Lock()
	b.pending[key] = value
	b.mu.Unlock()
}

// Drain detaches the pending contents and installs a fresh empty map as the
// new write target. The returned map is exclusively owned by the caller; the
// buffer retains no reference to it. Draining an empty buffer returns nil
// without allocating.
func (b *Buffer[K, V]) Drain() map[K]V {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return nil
	}
	drained := b.pending
	b.pending = make(map[K]V)
	return drained
}

// Len reports the number of keys currently pending.
func (b *Buffer[K, V]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
