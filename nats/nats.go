// Package nats provides a conflate.Source that bridges a NATS subject
// subscription into a conflation engine.
package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/tickflow/conflate"
)

// DefaultBuffer is the default depth of the subscription channel between the
// NATS client and the engine pump.
const DefaultBuffer = 1024

// Source conflates messages from a NATS subject, keyed by the concrete
// subject each message arrived on. Subscribing to a wildcard like "ticks.>"
// conflates independently per published subject, so a feed publishing to
// "ticks.EURUSD" and "ticks.GBPUSD" yields one pending value per instrument.
type Source[V any] struct {
	conn    *nats.Conn
	subject string
	decode  conflate.DecodeFunc[V]
	buffer  int
}

// Option configures a Source.
type Option[V any] func(*Source[V])

// WithBuffer sets the subscription channel depth. Bursts beyond the buffer
// block the NATS client's delivery goroutine, not the engine.
func WithBuffer[V any](n int) Option[V] {
	return func(s *Source[V]) {
		s.buffer = n
	}
}

// New creates a Source for the given subject. Payloads are decoded with
// decode; messages that fail to decode are dropped.
func New[V any](conn *nats.Conn, subject string, decode conflate.DecodeFunc[V], opts ...Option[V]) *Source[V] {
	s := &Source[V]{
		conn:    conn,
		subject: subject,
		decode:  decode,
		buffer:  DefaultBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Updates subscribes to the subject and returns a channel that emits one
// entry per message, keyed by the message's subject. The subscription is
// removed and the channel closed when the context is canceled.
func (s *Source[V]) Updates(ctx context.Context) (<-chan conflate.Entry[string, V], error) {
	msgs := make(chan *nats.Msg, s.buffer)
	sub, err := s.conn.ChanSubscribe(s.subject, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}

	out := make(chan conflate.Entry[string, V])

	go func() {
		defer close(out)
		defer sub.Unsubscribe() //nolint:errcheck // Best-effort teardown

		for {
			select {
			case <-ctx.Done():
				return

			case msg := <-msgs:
				value, err := s.decode(msg.Data)
				if err != nil {
					// Keep consuming despite undecodable messages
					continue
				}

				select {
				case out <- conflate.Entry[string, V]{Key: msg.Subject, Value: value}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
