// Package redis provides a conflate.Source that bridges Redis pub/sub
// channels into a conflation engine.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tickflow/conflate"
)

// DefaultBuffer is the default depth of the pub/sub channel between the
// Redis client and the engine pump.
const DefaultBuffer = 100

// Source conflates messages published to Redis channels matching a pattern,
// keyed by the concrete channel each message arrived on. Subscribing to
// "ticks.*" conflates independently per published channel.
type Source[V any] struct {
	client  *redis.Client
	pattern string
	decode  conflate.DecodeFunc[V]
	buffer  int
}

// Option configures a Source.
type Option[V any] func(*Source[V])

// WithBuffer sets the pub/sub channel depth. Bursts beyond the buffer are
// dropped by the Redis client rather than blocking it.
func WithBuffer[V any](n int) Option[V] {
	return func(s *Source[V]) {
		s.buffer = n
	}
}

// New creates a Source for channels matching pattern. Payloads are decoded
// with decode; messages that fail to decode are dropped.
func New[V any](client *redis.Client, pattern string, decode conflate.DecodeFunc[V], opts ...Option[V]) *Source[V] {
	s := &Source[V]{
		client:  client,
		pattern: pattern,
		decode:  decode,
		buffer:  DefaultBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Updates subscribes to the pattern and returns a channel that emits one
// entry per message, keyed by the message's channel. The subscription is
// closed when the context is canceled.
func (s *Source[V]) Updates(ctx context.Context) (<-chan conflate.Entry[string, V], error) {
	pubsub := s.client.PSubscribe(ctx, s.pattern)

	// Verify subscription worked
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.pattern, err)
	}

	msgs := pubsub.Channel(redis.WithChannelSize(s.buffer))
	out := make(chan conflate.Entry[string, V])

	go func() {
		defer close(out)
		defer pubsub.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case msg, ok := <-msgs:
				if !ok {
					return
				}

				value, err := s.decode([]byte(msg.Payload))
				if err != nil {
					// Keep consuming despite undecodable messages
					continue
				}

				select {
				case out <- conflate.Entry[string, V]{Key: msg.Channel, Value: value}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
