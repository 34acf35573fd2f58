// Package splitter provides the client for the remote splitter service:
// the resolve endpoint that issues signed, time-limited retrieval locations
// for a batch of stems, and the cleanup endpoint that removes the batch
// from the remote store once retrieval is finished.
//
// # Resolve
//
//	client := splitter.NewClient(httpClient, resolveURL, cleanupURL)
//	locations, err := client.Resolve(ctx, manifest.BatchID, manifest.Names())
//
// Resolve failures are reported as *ResolveError with a Kind of
// KindTransport, KindRejected, or KindEmpty. Resolving is idempotent from
// the caller's point of view: re-resolving a name yields a fresh usable
// location.
//
// # Cleanup
//
//	err := client.Cleanup(ctx, manifest)
//
// Cleanup is best-effort; the caller logs failures and never retries.
//
// Wire formats live in the dto subpackage.
package splitter
