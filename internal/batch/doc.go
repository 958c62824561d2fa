// Package batch runs album resolution across a bounded worker pool.
//
// # Coordinator
//
// The Coordinator drives a whole scraping run:
//
//  1. Start up to Options.Workers album tasks at a time
//  2. Report each finished album's log lines as one ProgressEvent
//  3. Cool down after a 429, or pause briefly after any other album
//  4. Merge contacts and drop duplicate emails, first seen wins
//
// # Basic Usage
//
//	coord := batch.NewCoordinator(albums, batch.DefaultOptions(), func(event batch.ProgressEvent) {
//	    fmt.Fprintln(os.Stderr, event.Message)
//	})
//
//	result := coord.Run(ctx, urls)
//	fmt.Printf("%d unique emails\n", len(result.Contacts))
//
// # Concurrency
//
// Workers are clamped to 1..10; a single worker processes albums strictly
// in order. The cooldown and task delay hold the worker's slot, so they
// throttle the whole pool rather than one goroutine.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback is invoked from worker goroutines and must be safe for
// concurrent use. GetProgress reports counters for progress bars.
package batch
