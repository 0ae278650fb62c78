// Package bus provides a synchronous publish/subscribe event bus keyed by
// string event ids.
//
// The bus is the coordination backbone for decoupled instrumentation
// concerns: code performing a unit of work dispatches events, and observers
// subscribed to those event ids react without any direct dependency on the
// dispatcher.
//
// # Dispatch Order
//
// Dispatch runs entirely on the caller's goroutine. Wildcard listeners
// registered via SubscribeAll run first, each invoked with two arguments:
// the event id and the argument slice. Per-event listeners then run in
// registration order, each invoked with the dispatch arguments spread
// positionally. Subscribing the same listener to the same event id more than
// once collapses to a single registration.
//
// # Snapshot Isolation
//
// Registries may be mutated concurrently from other goroutines while a
// dispatch is in progress. An in-flight dispatch completes against the
// registry state captured at its start; concurrent Subscribe and Unsubscribe
// calls never add or remove listeners from it.
//
// # Failure Policy
//
// Listener failures (returned errors and recovered panics) follow the bus
// policy. Under PolicyIsolate, the production default, a failure is logged
// through a rate-limited slog logger and the remaining listeners still run.
// Under PolicyPropagate the first failure aborts the dispatch, including
// wildcard listeners not yet run, and is returned to the dispatch caller.
// The policy is read atomically on every dispatch and may be switched at
// runtime with SetPolicy.
//
// # Default Bus
//
// The package maintains a process-wide default bus in the manner of
// log/slog: package-level functions delegate to Default, and SetDefault
// swaps in an alternate instance, which keeps test isolation free of
// call-site changes.
//
// # Usage
//
//	b, err := bus.New(bus.WithPolicy(bus.PolicyPropagate))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = b.Subscribe("request.received", bus.ListenerFunc(
//	    func(args ...any) (any, error) {
//	        fmt.Println("request:", args[0])
//	        return nil, nil
//	    },
//	))
//
//	if err := b.Dispatch("request.received", "GET /health"); err != nil {
//	    log.Printf("dispatch failed: %v", err)
//	}
//
// Collecting per-listener outcomes:
//
//	results, err := b.DispatchResults("request.received", "GET /health")
//	for _, r := range results {
//	    if !r.IsSuccess() {
//	        log.Printf("listener failed: %v", r.Err)
//	    }
//	}
package bus
