package bus

// Listener is the interface for event listeners.
//
// Per-event listeners receive the dispatch arguments spread positionally.
// Wildcard listeners registered via SubscribeAll receive exactly two
// arguments: the event id (string) and the argument slice ([]any).
type Listener interface {
	// Invoke processes a dispatched event.
	// The return value is collected by DispatchResults and discarded by
	// Dispatch.
	Invoke(args ...any) (any, error)
}

// ListenerFunc is a function adapter for Listener.
type ListenerFunc func(args ...any) (any, error)

// Invoke implements the Listener interface.
func (f ListenerFunc) Invoke(args ...any) (any, error) {
	return f(args...)
}

// Policy selects how dispatch handles a failing listener.
type Policy int32

const (
	// PolicyIsolate logs a listener failure and continues with the next
	// listener. This is the production default.
	PolicyIsolate Policy = iota

	// PolicyPropagate aborts the dispatch on the first failure and returns
	// the error to the dispatch caller. Intended for debugging and tests.
	PolicyPropagate
)

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case PolicyIsolate:
		return "isolate"
	case PolicyPropagate:
		return "propagate"
	default:
		return "unknown"
	}
}

func (p Policy) valid() bool {
	return p == PolicyIsolate || p == PolicyPropagate
}

// PanicHandler is called when a listener panics.
// It receives the event id, the panic value, and the stack trace.
type PanicHandler func(event string, value any, stack []byte)

// Stats is a point-in-time snapshot of bus counters.
type Stats struct {
	// Dispatches is the total number of Dispatch and DispatchResults calls.
	Dispatches uint64

	// Invocations is the total number of listener invocations.
	Invocations uint64

	// Failures is the number of listeners that returned errors.
	Failures uint64

	// Panics is the number of recovered listener panics.
	Panics uint64

	// Events is the number of event ids with at least one listener.
	Events int

	// Wildcards is the number of wildcard listeners.
	Wildcards int
}
