package execctx

import "errors"

// Sentinel errors for execution contexts.
var (
	// ErrRootParent is returned when adding a parent to the root context.
	ErrRootParent = errors.New("cannot add a parent to the root context")

	// ErrDuplicateKey is returned by SetSafe when the key already exists in
	// the context's own mapping.
	ErrDuplicateKey = errors.New("key already present in context")

	// ErrKeyNotFound is returned by Item when the key is absent through the
	// whole parent traversal.
	ErrKeyNotFound = errors.New("key not found in context")

	// ErrNoActiveContext is returned when the current-context variable holds
	// no value. The variable is initialized to the root context at package
	// init, so seeing this error indicates an invariant violation.
	ErrNoActiveContext = errors.New("no active execution context")
)
