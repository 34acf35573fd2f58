// Package download coordinates batch stem retrieval: resolving signed
// locations, pacing retrieval initiations, retrying failures, and
// triggering remote cleanup.
//
// # Controller
//
// The Controller drives one batch from start to a terminal state:
//
//  1. Order the manifest's stems (melodic stems first, then drums)
//  2. Resolve signed locations for the outstanding names
//  3. Schedule retrieval of each stem, staggered to avoid bursts
//  4. Retry only the failed names, up to the attempt limit
//  5. Trigger remote cleanup exactly once, whatever the outcome
//
// # Basic Usage
//
//	scheduler := download.NewScheduler(saver, settings.Stagger())
//	controller := download.NewController(resolver, cleaner, scheduler,
//	    settings.MaxAttempts, settings.RetryDelay(), logger)
//	controller.OnEvent = func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	}
//
//	terminal, outcome, err := controller.Start(ctx, manifest)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d/%d stems\n", terminal, len(outcome.Succeeded), outcome.Total)
//
// # Retries
//
// Resolved locations are short-lived signed URLs, so every attempt
// resolves afresh instead of reusing URLs from a failed pass. Successes
// accumulate across attempts; only the names still failing are carried
// into the next resolve. After the configured number of attempts the
// batch ends in an exhausted state with the remaining failures reported
// in the outcome.
//
// # Cleanup
//
// Remote cleanup removes the batch's stems from the splitter's store. It
// fires exactly once per batch when the controller reaches a terminal
// state, and is best-effort: a cleanup failure is logged but never turns
// a successful batch into a failed one.
//
// # Progress Tracking
//
// Three optional hooks report progress:
//   - OnEvent: human-readable messages with a severity level
//   - OnProgress: the cumulative outcome after each scheduling pass
//   - OnTerminal: the terminal state and final outcome
//
// # Single-Stem Re-Fetch
//
// FetchOne re-retrieves one stem outside the batch machinery, reusing
// its cached location when one is available. It is the path behind
// "download this stem again" actions after a batch has finished.
package download
