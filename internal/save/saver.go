// Package save implements the host retrieval primitive: persisting a
// resolved location's content to local storage under a stem's target
// filename.
//
// Initiation is synchronous and cheap — the destination is prepared and
// the transfer handed to a background worker — while the transfer itself
// completes (or fails) out of band. Callers only observe initiation;
// per-transfer results surface through the OnResult hook.
package save

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"golang.org/x/sync/errgroup"

	shttp "github.com/EricDisero/stemfetch/internal/http"
	ioutils "github.com/EricDisero/stemfetch/internal/io"
	"github.com/EricDisero/stemfetch/internal/model"
)

// DefaultMaxTransfers bounds concurrent background transfers when no limit
// is configured.
const DefaultMaxTransfers = 4

// FileSaver streams resolved locations to local stem files.
//
// Save initiates a transfer: it validates the location, prepares the
// destination, and hands the streaming to a bounded background worker.
// Initiation failures are returned synchronously; transfer results are
// reported through OnResult. Call Wait before exiting to let in-flight
// transfers drain.
type FileSaver struct {
	httpClient *shttp.Client
	group      *errgroup.Group

	// OnResult, if set, is called when a background transfer finishes.
	// err is nil for a completed transfer. Must be safe for concurrent
	// use; transfers finish in arbitrary order.
	OnResult func(stem *model.Stem, err error)
}

// NewFileSaver creates a FileSaver that downloads with the given client.
//
// maxTransfers bounds how many transfers stream concurrently; a
// non-positive value falls back to DefaultMaxTransfers.
func NewFileSaver(httpClient *shttp.Client, maxTransfers int) *FileSaver {
	if maxTransfers <= 0 {
		maxTransfers = DefaultMaxTransfers
	}

	g := &errgroup.Group{}
	g.SetLimit(maxTransfers)

	return &FileSaver{
		httpClient: httpClient,
		group:      g,
	}
}

// Save initiates the retrieval of one stem.
//
// Synchronously it:
//  1. Validates the resolved location is an absolute http(s) URL
//  2. Creates the stem's target directory
//  3. Verifies the target file can be created
//
// and then hands the actual transfer to a background worker. A nil return
// means the retrieval was initiated, not that it completed.
func (f *FileSaver) Save(ctx context.Context, stem *model.Stem, loc model.ResolvedLocation) error {
	parsed, err := url.Parse(loc.Location)
	if err != nil {
		return fmt.Errorf("initiate %s: %w", stem.Name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("initiate %s: unsupported location scheme %q", stem.Name, parsed.Scheme)
	}

	if err := ioutils.EnsureDir(stem.Manifest.Dir); err != nil {
		return fmt.Errorf("initiate %s: %w", stem.Name, err)
	}

	// Claim the destination now so an unwritable path fails initiation
	// rather than the background transfer.
	file, err := os.Create(stem.Path)
	if err != nil {
		return fmt.Errorf("initiate %s: %w", stem.Name, err)
	}
	file.Close()

	f.group.Go(func() error {
		err := f.httpClient.DownloadFile(ctx, loc.Location, stem.Path, nil)
		if err != nil {
			// Leave no truncated stem behind.
			os.Remove(stem.Path)
		}
		if f.OnResult != nil {
			f.OnResult(stem, err)
		}
		return err
	})

	return nil
}

// Wait blocks until all initiated transfers finish and returns the first
// transfer error, if any.
func (f *FileSaver) Wait() error {
	return f.group.Wait()
}
