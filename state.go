package conflate

// State represents the current state of an Engine.
type State int32

const (
	// StateCreated indicates the engine has been constructed but Start has
	// not been called. Ingest and Subscribe are already valid; buffered
	// values are delivered on the first flush after Start.
	StateCreated State = iota

	// StateRunning indicates the flush loop is active.
	StateRunning

	// StateStopped indicates the engine is terminal: the timer is cancelled,
	// the final drain has been delivered, and subscriber references are
	// released. Stopped is permanent; a stopped engine cannot be restarted.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
