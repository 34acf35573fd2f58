package splitter

import (
	"context"
	"errors"
	"fmt"

	shttp "github.com/EricDisero/stemfetch/internal/http"
	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/splitter/dto"
)

// Client talks to the splitter service's resolve and cleanup endpoints.
//
// Both endpoints take JSON POST requests keyed by batch ID. Resolve may be
// called repeatedly for the same names; the service issues a fresh signed
// location each time.
type Client struct {
	httpClient *shttp.Client
	resolveURL string
	cleanupURL string
}

// NewClient creates a splitter-service client.
//
// Parameters:
//   - httpClient: The shared HTTP client (carries the request timeout)
//   - resolveURL: Full URL of the resolve endpoint
//   - cleanupURL: Full URL of the cleanup endpoint
func NewClient(httpClient *shttp.Client, resolveURL, cleanupURL string) *Client {
	return &Client{
		httpClient: httpClient,
		resolveURL: resolveURL,
		cleanupURL: cleanupURL,
	}
}

// Resolve requests signed retrieval locations for the named stems.
//
// On success it returns one ResolvedLocation per name the service could
// resolve, in service order; the caller re-associates locations with stems
// by name. A name the service omits simply has no location in the result.
//
// Failures are reported as *ResolveError:
//   - KindEmpty if names is empty (no request is sent)
//   - KindTransport on network failure or timeout
//   - KindRejected on a non-2xx response or a non-success status field
func (c *Client) Resolve(ctx context.Context, batchID string, names []string) ([]model.ResolvedLocation, error) {
	if len(names) == 0 {
		return nil, &ResolveError{Kind: KindEmpty, Message: "no stem names requested"}
	}

	req := dto.ResolveRequest{BatchID: batchID, Names: names}

	var resp dto.ResolveResponse
	if err := c.httpClient.PostJSON(ctx, c.resolveURL, req, &resp); err != nil {
		var statusErr *shttp.StatusError
		if errors.As(err, &statusErr) {
			return nil, &ResolveError{Kind: KindRejected, Message: statusErr.Status, Err: err}
		}
		return nil, &ResolveError{Kind: KindTransport, Err: err}
	}

	if resp.Status != dto.StatusSuccess {
		return nil, &ResolveError{Kind: KindRejected, Message: resp.Message}
	}

	locations := make([]model.ResolvedLocation, 0, len(resp.Locations))
	for _, loc := range resp.Locations {
		locations = append(locations, model.ResolvedLocation{
			Name:     loc.Name,
			Location: loc.Location,
			Category: loc.Category,
		})
	}

	return locations, nil
}

// Cleanup asks the service to remove the batch's stems from the remote
// store. The endpoint is idempotent; the caller treats failures as
// best-effort and never retries.
func (c *Client) Cleanup(ctx context.Context, manifest *model.Manifest) error {
	req := dto.CleanupRequest{BatchID: manifest.BatchID, Names: manifest.Names()}

	var resp dto.CleanupResponse
	if err := c.httpClient.PostJSON(ctx, c.cleanupURL, req, &resp); err != nil {
		return fmt.Errorf("cleanup batch %s: %w", manifest.BatchID, err)
	}

	if resp.Status != dto.StatusSuccess {
		return fmt.Errorf("cleanup batch %s: service reported %q: %s", manifest.BatchID, resp.Status, resp.Message)
	}

	return nil
}
