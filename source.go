package conflate

import (
	"context"
	"fmt"
)

// Entry is one keyed update flowing from a Source into an Engine.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Source produces keyed updates for an Engine. Implementations bridge an
// external producer (a broker subscription, a watched file, a channel) into
// the engine's ingest path via Engine.Consume.
type Source[K comparable, V any] interface {
	// Updates begins producing and returns a channel that emits one Entry
	// per observed update. The channel is closed when the context is
	// canceled or the underlying producer ends.
	Updates(ctx context.Context) (<-chan Entry[K, V], error)
}

// Consume pumps a source into the engine's Ingest until the source closes,
// the context is canceled, or the engine stops. It blocks, so callers
// typically run it on its own goroutine.
func (e *Engine[K, V]) Consume(ctx context.Context, src Source[K, V]) error {
	updates, err := src.Updates(ctx)
	if err != nil {
		return fmt.Errorf("conflate: failed to start source: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-updates:
			if !ok {
				return nil
			}
			if err := e.Ingest(entry.Key, entry.Value); err != nil {
				return err
			}
		}
	}
}

// ChannelSource wraps an existing entry channel as a Source.
// Useful for testing and custom producers that already emit entries.
type ChannelSource[K comparable, V any] struct {
	ch   <-chan Entry[K, V]
	sync bool
}

// NewChannelSource creates a ChannelSource that forwards entries from the
// given channel through an internal goroutine.
func NewChannelSource[K comparable, V any](ch <-chan Entry[K, V]) *ChannelSource[K, V] {
	return &ChannelSource[K, V]{ch: ch, sync: false}
}

// NewSyncChannelSource creates a ChannelSource that returns the source
// channel directly without an intermediate goroutine.
// Use for deterministic testing.
func NewSyncChannelSource[K comparable, V any](ch <-chan Entry[K, V]) *ChannelSource[K, V] {
	return &ChannelSource[K, V]{ch: ch, sync: true}
}

// Updates returns a channel that emits entries from the wrapped channel.
func (s *ChannelSource[K, V]) Updates(ctx context.Context) (<-chan Entry[K, V], error) {
	if s.sync {
		return s.ch, nil
	}

	out := make(chan Entry[K, V])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-s.ch:
				if !ok {
					return
				}
				select {
				case out <- entry:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
