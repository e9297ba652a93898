package conflate

import "github.com/zoobzio/capitan"

// Field keys for Engine events.
var (
	// KeyInterval is the configured flush interval.
	KeyInterval = capitan.NewDurationKey("interval")

	// KeyFlushedKeys is the number of keys delivered by a flush.
	KeyFlushedKeys = capitan.NewIntKey("flushed_keys")

	// KeySubscribers is the number of subscribers that received a flush.
	KeySubscribers = capitan.NewIntKey("subscribers")

	// KeyFlushDuration is the wall time a flush's delivery loop took.
	KeyFlushDuration = capitan.NewDurationKey("flush_duration")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyState is the engine state at the time of the event.
	KeyState = capitan.NewStringKey("state")
)
