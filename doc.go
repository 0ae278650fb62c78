// Package corebus combines a process-wide event bus with a tree of
// execution contexts carrying scoped, inheritable data.
//
// It lets independently developed instrumentation concerns observe and
// annotate a unit of work, such as a request or an RPC call, without any
// coupling between the code performing the work and the code observing it.
//
// # Events
//
// Listeners subscribe to string event ids on the process default bus and
// are invoked synchronously, in registration order, when the event is
// dispatched:
//
//	corebus.On("request.blocked", corebus.ListenerFunc(
//	    func(args ...any) (any, error) {
//	        audit(args[0])
//	        return nil, nil
//	    },
//	))
//
//	corebus.Dispatch("request.blocked", verdict)
//
// # Contexts
//
// WithContext brackets a unit of work. Creating the context publishes
// "context.started.<identifier>", makes it the current context, and ending
// it publishes "context.ended.<identifier>" and restores the previous one.
// Item operations without an explicit context resolve against the current
// context, reads falling back through its ancestors:
//
//	err := corebus.WithContext("request", func(c *corebus.Context) error {
//	    corebus.SetItem("peer", addr)
//	    return handle()
//	})
//
// # Spans
//
// Supplying a span to the item operations redirects reads and writes to the
// span's store, bypassing the current context entirely:
//
//	corebus.SetItem("verdict", v, corebus.WithSpan(span))
//
// The underlying pieces live in the bus, execctx, scoped, tracking, and
// flare packages; this package is a thin facade over the process defaults.
package corebus
