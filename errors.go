package conflate

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned by New when the flush interval is zero or
// negative.
var ErrInvalidInterval = errors.New("conflate: flush interval must be positive")

// ErrStopped is returned by Ingest after Stop has been called. The offered
// value is dropped; no delivery is guaranteed after stop.
var ErrStopped = errors.New("conflate: engine stopped")

// SubscriberError records a recovered panic from a subscriber callback.
// Delivery to other subscribers and other keys continues; the failure is
// retained in the engine's error history (see Engine.RecentErrors).
type SubscriberError struct {
	// Recovered is the value recovered from the panicking callback.
	Recovered any
}

// Error implements the error interface.
func (e *SubscriberError) Error() string {
	return fmt.Sprintf("conflate: subscriber callback panicked: %v", e.Recovered)
}
