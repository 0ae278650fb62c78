// Package execctx provides a tree of execution contexts: scope-bound nodes
// carrying key/value data that observers and instrumentation can read and
// annotate without coupling to the code performing the work.
//
// # Data Inheritance
//
// Each context owns a private mapping. Reads fall back lazily through the
// primary-parent chain: Lookup walks from the context toward the root until
// a key is found, while LocalLookup consults the own mapping only. Writes
// always land in the own mapping, so a child can shadow an ancestor's value
// without mutating it.
//
// # Lifecycle Events
//
// Creating a context publishes "context.started.<identifier>" and ending it
// publishes "context.ended.<identifier>", both synchronously with the
// context as sole argument, on the bus given via WithBus or the process
// default bus. Any subscriber can react to these events, or to arbitrary
// application event ids, with no knowledge of who created the context.
//
// # Current Context and Goroutines
//
// A freshly created context (unless span-bound) becomes the current context,
// and ending it restores the previous one. The current-context slot is one
// process-ambient variable; it is not goroutine-local. Hand a context to a
// spawned goroutine through ContextWith and FromContext, which snapshot the
// value at spawn time. A context ended on a different flow than the one that
// created it trips a stale restore token, which is logged and otherwise
// ignored.
//
// # Sessions
//
// With brackets a unit of work: it creates the context, runs the supplied
// function, and guarantees exactly one End on every exit path.
//
//	err := execctx.With("request", func(c *execctx.Context) error {
//	    c.SetItem("peer", addr)
//	    return handle(c)
//	})
//
// # Spans
//
// A context created with WithSpan never becomes the current context and is
// reachable only through its span. The Span interface is the boundary to an
// external tracing collaborator; Store adapts a context tree's root into
// that interface so span-targeted reads and writes bypass the current
// context entirely.
package execctx
