package conflate

import "github.com/zoobzio/clockz"

// DefaultErrorCapacity is the default number of subscriber failures retained
// by RecentErrors.
const DefaultErrorCapacity = 16

// config holds configuration options for an Engine.
type config struct {
	clock         clockz.Clock
	metrics       MetricsProvider
	errorCapacity int
}

// Option configures an Engine.
type Option func(*config)

// WithClock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic flush testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithMetrics attaches a MetricsProvider that receives callbacks on ingest,
// flush, and subscriber-panic events.
func WithMetrics(m MetricsProvider) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithErrorCapacity sets how many recent subscriber failures are retained
// for RecentErrors. A capacity of 0 disables error history.
func WithErrorCapacity(n int) Option {
	return func(c *config) {
		c.errorCapacity = n
	}
}
