// Package pulse reports multi-step progress from a running process to an
// independent observer (a desktop widget or the pulse CLI) through a small
// set of JSON state documents in a per-user data directory. There is no
// direct connection between producer and observer: both sides poll the same
// files, and every write replaces a document atomically.
//
// # Quick Start
//
// Create a client and wrap a loop with a tracker:
//
//	client, err := pulse.New(ctx, pulse.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	tracker, _ := client.NewTracker(ctx, pulse.TrackerConfig{
//	    Description: "Processing records",
//	    Total:       len(records),
//	})
//	for record := range pulse.Wrap(tracker, slices.Values(records)) {
//	    process(record)
//	}
//
// The tracker publishes percentage and ETA snapshots while iterating and
// archives the task into history when the loop finishes, breaks early, or
// panics.
//
// # Multi-Step Tasks
//
// For workflows expressed as named phases instead of item counts, use a
// session:
//
//	sess, err := client.NewSession(ctx, pulse.SessionConfig{
//	    TaskName:   "Data Analysis",
//	    TotalSteps: 3,
//	})
//	if err != nil {
//	    return err
//	}
//	defer func() { sess.End(err) }()
//
//	sess.Step("Loading data")
//	sess.Step("Cleaning data")
//	sess.Step("Generating report")
//
// When the enclosing function fails, End publishes the error into the
// progress document so the observer can render it.
//
// # Staleness
//
// A crashed producer cannot clear its own record. The client runs a
// background reaper that deactivates a record whose last update is older
// than [Config].MaxIdle, preserving the last known values for display.
// Close stops the reaper.
//
// # Concurrency
//
// A Client and the trackers and sessions it creates are safe for concurrent
// use within one process. Concurrent producer processes are not supported;
// the model is at most one active producer at a time, with read-only
// observers.
package pulse
