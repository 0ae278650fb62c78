// Package scoped provides a single-slot variable with push/pop binding
// semantics, used to track the "current" value of some ambient state such as
// the active execution context.
//
// Set pushes a binding and returns an opaque token; Reset consumes the token
// and restores the prior value. Tokens are single-use. Resetting a token
// that is no longer the topmost binding, because another code path already
// reset past it, removes the stray binding and reports ErrStaleToken; that
// case is expected to be logged by the caller and never treated as fatal.
//
// A Variable is one process-ambient slot guarded by a mutex, not
// goroutine-local storage. Concurrent flows that need isolated current
// values should carry their value explicitly, typically through a
// context.Context; a flow that resets a token pushed by another flow lands
// on the tolerated stale-token path.
//
//	var current = scoped.NewVariable[*Session]("session")
//
//	tok := current.Set(sess)
//	defer func() {
//	    if err := current.Reset(tok); err != nil {
//	        slog.Warn("session restore token stale")
//	    }
//	}()
package scoped
