package scoped

import "sync"

// Token undoes one Set call. Tokens are single-use and valid only on the
// variable that issued them.
type Token[T any] struct {
	owner *Variable[T]
}

// Variable is a single-slot variable with push/pop binding semantics. The
// topmost binding is the current value; Init installs a base value
// underneath all bindings. A Variable is safe for concurrent use.
type Variable[T any] struct {
	mu      sync.Mutex
	name    string
	frames  []frame[T]
	base    T
	hasBase bool
}

type frame[T any] struct {
	tok   *Token[T]
	value T
}

// NewVariable creates a named, uninitialized variable. The name is
// diagnostic only.
func NewVariable[T any](name string) *Variable[T] {
	return &Variable[T]{name: name}
}

// Name returns the variable's diagnostic name.
func (v *Variable[T]) Name() string {
	return v.name
}

// Init installs the base value underneath all bindings. Unlike Set it
// produces no token; the base value cannot be popped.
func (v *Variable[T]) Init(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.base = value
	v.hasBase = true
}

// Get returns the current value: the topmost binding, or the base value when
// no bindings exist. ErrEmpty is returned when the variable was never
// initialized.
func (v *Variable[T]) Get() (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if n := len(v.frames); n > 0 {
		return v.frames[n-1].value, nil
	}
	if v.hasBase {
		return v.base, nil
	}
	var zero T
	return zero, ErrEmpty
}

// Set pushes a new binding and returns the token that undoes it.
func (v *Variable[T]) Set(value T) *Token[T] {
	tok := &Token[T]{owner: v}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.frames = append(v.frames, frame[T]{tok: tok, value: value})
	return tok
}

// Reset pops the binding created by tok, restoring the prior value. When tok
// is not the topmost binding, the stray binding is removed if still present
// and ErrStaleToken is returned; callers are expected to log and continue.
func (v *Variable[T]) Reset(tok *Token[T]) error {
	if tok == nil || tok.owner != v {
		return ErrStaleToken
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if n := len(v.frames); n > 0 && v.frames[n-1].tok == tok {
		v.frames = v.frames[:n-1]
		return nil
	}
	for i := range v.frames {
		if v.frames[i].tok == tok {
			v.frames = append(v.frames[:i], v.frames[i+1:]...)
			return ErrStaleToken
		}
	}
	return ErrStaleToken
}

// Depth returns the number of live bindings above the base value.
func (v *Variable[T]) Depth() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.frames)
}
