package bus

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrEmptyEvent is returned when an empty event id is provided.
	ErrEmptyEvent = errors.New("event id is empty")

	// ErrNilListener is returned when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrListenerPanic is returned when a listener panics.
	ErrListenerPanic = errors.New("listener panicked")
)

// ListenerError wraps an error returned by a listener with dispatch context.
type ListenerError struct {
	// Event is the event id being dispatched when the listener failed.
	Event string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener error for event " + e.Event + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a recovered listener panic as an error.
type PanicError struct {
	// Event is the event id being dispatched when the listener panicked.
	Event string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "listener panic for event " + e.Event
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
