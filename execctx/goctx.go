package execctx

import "context"

type ctxKey struct{}

// ContextWith returns a context.Context carrying c, for handing an execution
// context to a spawned goroutine. The goroutine sees the value as of the
// ContextWith call, never a live link to the spawner's current context.
func ContextWith(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, ctxKey{}, c)
}

// FromContext returns the execution context carried by ctx, if any.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Context)
	return c, ok
}
