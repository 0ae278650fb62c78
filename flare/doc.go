// Package flare assembles diagnostic snapshots of the dispatch system as
// JSON reports.
//
// A report can include bus counters and policy, the execution-context chain
// from a given context up to its root with each node's own data, and
// per-root lifecycle tallies from a tracking.Monitor. Values stored under
// secret-looking keys (key, token, secret, password) are redacted before
// serialization, and context data is deep-copied so report building never
// races the owning flow's nested structures.
//
//	report, err := flare.Collect(
//	    flare.WithBus(bus.Default()),
//	    flare.WithContext(c),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Get("bus.policy").String())
//	_ = report.WriteFile("corebus-flare.json")
package flare
