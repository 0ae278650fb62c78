package execctx

// With runs fn inside a fresh context: the context is created as by New,
// handed to fn, and ended exactly once on every exit path, including a
// panicking fn. fn's error is returned; when fn succeeds, an ended-dispatch
// error (possible under bus.PolicyPropagate) is returned instead.
func With(identifier string, fn func(*Context) error, opts ...Option) (err error) {
	c, cerr := New(identifier, opts...)
	if cerr != nil {
		_, _ = c.End()
		return cerr
	}

	defer func() {
		if _, eerr := c.End(); eerr != nil && err == nil {
			err = eerr
		}
	}()

	return fn(c)
}
