package conflate

import "github.com/zoobzio/capitan"

// Engine lifecycle signals.
var (
	// EngineStarted is emitted when an Engine's flush loop begins.
	EngineStarted = capitan.NewSignal(
		"conflate.engine.started",
		"Engine flush loop started",
	)

	// EngineStopped is emitted after the final drain has been delivered and
	// the engine has become terminal.
	EngineStopped = capitan.NewSignal(
		"conflate.engine.stopped",
		"Engine stopped after final drain",
	)
)

// Delivery signals.
var (
	// FlushDelivered is emitted after a non-empty flush has been delivered
	// to all subscribers. Empty flushes are silent.
	FlushDelivered = capitan.NewSignal(
		"conflate.flush.delivered",
		"Flush delivered to subscribers",
	)

	// SubscriberPanicked is emitted when a subscriber callback panics during
	// delivery. The panic is recovered and delivery continues.
	SubscriberPanicked = capitan.NewSignal(
		"conflate.subscriber.panicked",
		"Subscriber callback panicked during delivery",
	)
)

// Subscription signals.
var (
	// SubscriberAdded is emitted when a subscriber registers.
	SubscriberAdded = capitan.NewSignal(
		"conflate.subscriber.added",
		"Subscriber registered",
	)

	// SubscriberRemoved is emitted when a subscription is cancelled.
	SubscriberRemoved = capitan.NewSignal(
		"conflate.subscriber.removed",
		"Subscription cancelled",
	)
)
