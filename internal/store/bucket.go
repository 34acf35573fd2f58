// Package store implements the direct-bucket deployment mode: resolving
// and cleaning up stems straight against a blob bucket instead of going
// through the splitter service's HTTP endpoints.
//
// Objects are keyed "{batchID}/{stemName}". Resolve issues signed,
// time-limited URLs via the bucket's native signing support; Cleanup
// deletes the batch's objects and is idempotent. Storage access goes
// through gocloud.dev/blob, so any driver (s3blob in production, memblob
// and fileblob in tests) works unchanged.
package store

import (
	"context"
	"fmt"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/splitter"
)

// DefaultExpiry is how long a signed URL stays valid when no expiry is
// configured.
const DefaultExpiry = 15 * time.Minute

// Bucket adapts a blob bucket to the resolver and cleaner contracts.
type Bucket struct {
	bucket *blob.Bucket
	expiry time.Duration
}

// NewBucket wraps an open blob bucket.
//
// A non-positive expiry falls back to DefaultExpiry. The caller retains
// ownership of the bucket and is responsible for closing it.
func NewBucket(bucket *blob.Bucket, expiry time.Duration) *Bucket {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Bucket{
		bucket: bucket,
		expiry: expiry,
	}
}

// Key returns the object key for a stem within a batch.
func Key(batchID, name string) string {
	return batchID + "/" + name
}

// Resolve issues a signed URL per named stem that exists in the bucket.
//
// Names whose objects are missing are simply omitted from the result, so
// the caller records them as failed and retries; names that exist but
// cannot be signed fail the whole call. Failures follow the resolver
// error contract (*splitter.ResolveError).
func (b *Bucket) Resolve(ctx context.Context, batchID string, names []string) ([]model.ResolvedLocation, error) {
	if len(names) == 0 {
		return nil, &splitter.ResolveError{Kind: splitter.KindEmpty, Message: "no stem names requested"}
	}

	locations := make([]model.ResolvedLocation, 0, len(names))
	for _, name := range names {
		key := Key(batchID, name)

		exists, err := b.bucket.Exists(ctx, key)
		if err != nil {
			return nil, &splitter.ResolveError{Kind: splitter.KindTransport, Err: fmt.Errorf("check %s: %w", key, err)}
		}
		if !exists {
			continue
		}

		url, err := b.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{Expiry: b.expiry})
		if err != nil {
			return nil, &splitter.ResolveError{Kind: splitter.KindTransport, Err: fmt.Errorf("sign %s: %w", key, err)}
		}

		locations = append(locations, model.ResolvedLocation{Name: name, Location: url})
	}

	return locations, nil
}

// Cleanup deletes the batch's objects from the bucket.
//
// Already-deleted objects are skipped, so repeating a cleanup for the same
// batch succeeds; any other deletion failure is reported after the
// remaining objects have been attempted.
func (b *Bucket) Cleanup(ctx context.Context, manifest *model.Manifest) error {
	var firstErr error
	for _, name := range manifest.Names() {
		key := Key(manifest.BatchID, name)
		if err := b.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			if firstErr == nil {
				firstErr = fmt.Errorf("delete %s: %w", key, err)
			}
		}
	}

	if firstErr != nil {
		return fmt.Errorf("cleanup batch %s: %w", manifest.BatchID, firstErr)
	}
	return nil
}
