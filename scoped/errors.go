package scoped

import "errors"

// Sentinel errors for scoped variables.
var (
	// ErrEmpty is returned by Get when the variable was never initialized
	// and holds no bindings.
	ErrEmpty = errors.New("scoped variable has no value")

	// ErrStaleToken is returned by Reset when the token no longer matches
	// the variable's topmost binding.
	ErrStaleToken = errors.New("restore token is stale")
)
