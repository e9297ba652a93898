package conflate

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface and attach it with WithMetrics to receive
// callbacks on key engine events.
type MetricsProvider interface {
	// OnIngest is called when a value is accepted into the buffer.
	OnIngest()

	// OnIngestDropped is called when Ingest is rejected because the engine
	// has stopped.
	OnIngestDropped()

	// OnFlush is called after a non-empty flush has been delivered.
	// Keys is the number of distinct keys delivered; duration is the wall
	// time of the delivery loop.
	OnFlush(keys int, duration time.Duration)

	// OnSubscriberPanic is called when a subscriber callback panics during
	// delivery.
	OnSubscriberPanic()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnIngest()                      {}
func (NoOpMetricsProvider) OnIngestDropped()               {}
func (NoOpMetricsProvider) OnFlush(_ int, _ time.Duration) {}
func (NoOpMetricsProvider) OnSubscriberPanic()             {}
