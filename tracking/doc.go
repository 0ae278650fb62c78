// Package tracking tallies execution-context lifecycle activity per context
// tree.
//
// A Monitor attaches a wildcard listener to a bus and counts, keyed by the
// root context's UID, how many contexts started and ended under each root.
// The difference is the number of contexts still open, which makes leaked
// sessions (a started context whose End never ran) visible at a glance.
//
//	mon := tracking.NewMonitor()
//	if err := mon.Attach(bus.Default()); err != nil {
//	    log.Fatal(err)
//	}
//	defer mon.Detach()
//
//	// ... work happens ...
//
//	for uid, a := range mon.Snapshot() {
//	    if a.Started != a.Ended {
//	        log.Printf("root %s (%s): %d contexts still open",
//	            a.Identifier, uid, a.Started-a.Ended)
//	    }
//	}
//
// Ending a context whose root the monitor never saw start is logged and
// otherwise ignored; it happens when the monitor attached mid-flight.
package tracking
