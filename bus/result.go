package bus

import "time"

// Result captures the outcome of one listener invocation. Success is carried
// explicitly so that a listener that succeeded while returning nothing is
// distinguishable from one that failed.
type Result struct {
	// Value is the listener's return value. It is nil when the listener
	// failed, whatever it returned.
	Value any

	// Success is true if the listener completed without error or panic.
	Success bool

	// Err is the failure: the listener's returned error, or a *PanicError
	// when the listener panicked.
	Err error

	// Panicked is true if the listener panicked.
	Panicked bool

	// Duration is how long the listener took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Err == nil
}

// IsError returns true if the listener returned an error (not a panic).
func (r Result) IsError() bool {
	return r.Err != nil && !r.Panicked
}

// IsPanic returns true if the listener panicked.
func (r Result) IsPanic() bool {
	return r.Panicked
}
