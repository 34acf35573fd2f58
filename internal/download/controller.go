package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EricDisero/stemfetch/internal/model"
	"github.com/EricDisero/stemfetch/internal/order"
)

// Retry defaults used when the controller is constructed with
// non-positive values.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 3 * time.Second
)

// ErrBatchInFlight is returned by Start when another batch is already
// being retrieved.
var ErrBatchInFlight = errors.New("batch retrieval already in flight")

// ErrUnknownStem is returned by FetchOne for a name outside the current
// manifest.
var ErrUnknownStem = errors.New("stem not in current manifest")

// Resolver resolves signed retrieval locations for the named stems of a
// batch. Locations are short-lived, so every attempt resolves afresh.
type Resolver interface {
	Resolve(ctx context.Context, batchID string, names []string) ([]model.ResolvedLocation, error)
}

// Cleaner removes a batch's stems from the remote store.
type Cleaner interface {
	Cleanup(ctx context.Context, manifest *model.Manifest) error
}

// State is the controller's position in the batch retrieval lifecycle.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateScheduling
	StateRetryPending
	StateSucceeded
	StateExhausted
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateScheduling:
		return "scheduling"
	case StateRetryPending:
		return "retry pending"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Controller runs a batch retrieval to completion.
//
// Start resolves locations for the batch, schedules retrieval of every
// stem, and retries the names that failed until either everything has
// been initiated or the attempt limit is reached. Whichever terminal
// state is reached, remote cleanup for the batch is triggered exactly
// once; cleanup failures are logged and never change the outcome.
//
// Only one batch runs at a time. A Start call while another batch is in
// flight returns ErrBatchInFlight without touching the running batch.
type Controller struct {
	resolver  Resolver
	cleaner   Cleaner
	scheduler *Scheduler
	session   *Session
	logger    *slog.Logger

	maxAttempts int
	retryDelay  time.Duration

	// OnProgress, if set, receives the cumulative outcome after every
	// scheduling pass.
	OnProgress func(model.Outcome)

	// OnTerminal, if set, receives the terminal state and final outcome
	// once the batch finishes.
	OnTerminal func(model.TerminalState, model.Outcome)

	// OnEvent, if set, receives human-readable progress messages.
	OnEvent func(ProgressEvent)

	mu    sync.Mutex
	state State
}

// NewController creates a Controller.
//
// Parameters:
//   - resolver: Resolves signed locations for stem names
//   - cleaner: Removes the batch from the remote store after completion
//   - scheduler: Paces and initiates the actual retrievals
//   - maxAttempts: Resolve-and-schedule passes before giving up
//     (non-positive falls back to DefaultMaxAttempts)
//   - retryDelay: Pause before re-resolving failed names (negative falls
//     back to DefaultRetryDelay; zero retries immediately)
//   - logger: Destination for operational logging (nil uses slog.Default)
func NewController(resolver Resolver, cleaner Cleaner, scheduler *Scheduler, maxAttempts int, retryDelay time.Duration, logger *slog.Logger) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if retryDelay < 0 {
		retryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		resolver:    resolver,
		cleaner:     cleaner,
		scheduler:   scheduler,
		session:     NewSession(),
		logger:      logger,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Session returns the controller's session state, for UIs that need to
// inspect the attempt record or cached locations.
func (c *Controller) Session() *Session {
	return c.session
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start runs the full retrieval for manifest and blocks until a terminal
// state is reached, returning that state and the final outcome.
//
// Each attempt resolves fresh locations for the still-failing names and
// schedules them; successes accumulate across attempts and are never
// retried. Canceling ctx abandons remaining work, but cleanup is still
// triggered for whatever terminal state the batch lands in.
func (c *Controller) Start(ctx context.Context, manifest *model.Manifest) (model.TerminalState, model.Outcome, error) {
	if !c.session.Begin(manifest) {
		return model.TerminalNoStems, model.Outcome{}, ErrBatchInFlight
	}
	defer c.session.Finish()

	if len(manifest.Stems) == 0 {
		c.logger.Info("nothing to retrieve", "batch", manifest.BatchID)
		c.event(LevelWarning, "Batch %s has no stems", manifest.BatchID)
		c.setState(StateIdle)
		outcome := model.Outcome{}
		if c.OnTerminal != nil {
			c.OnTerminal(model.TerminalNoStems, outcome)
		}
		return model.TerminalNoStems, outcome, nil
	}

	ordered := order.Stems(manifest.Stems)
	names := stemNames(ordered)

	cumulative := model.Outcome{Total: len(ordered)}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.setState(StateResolving)
		c.event(LevelInfo, "Resolving %d stems (attempt %d/%d)", len(names), attempt, c.maxAttempts)

		pass := c.runPass(ctx, manifest, names, attempt)
		cumulative = cumulative.Merge(pass)
		c.session.RecordAttempt(attempt, cumulative.Failed)

		if c.OnProgress != nil {
			c.OnProgress(cumulative)
		}

		if cumulative.AllSucceeded() {
			return c.finish(ctx, manifest, model.TerminalAllSucceeded, cumulative)
		}

		if attempt == c.maxAttempts {
			break
		}

		names = append([]string(nil), cumulative.Failed...)

		c.setState(StateRetryPending)
		c.event(LevelWarning, "%d stems failed, retrying in %s", len(names), c.retryDelay)
		if err := sleepCtx(ctx, c.retryDelay); err != nil {
			c.logger.Info("batch abandoned during retry wait", "batch", manifest.BatchID, "attempt", attempt)
			break
		}
	}

	return c.finish(ctx, manifest, model.TerminalExhausted, cumulative)
}

// runPass performs one resolve-and-schedule pass over names. A resolve
// failure fails the whole pass; scheduling failures are per-stem.
func (c *Controller) runPass(ctx context.Context, manifest *model.Manifest, names []string, attempt int) model.Outcome {
	locations, err := c.resolver.Resolve(ctx, manifest.BatchID, names)
	if err != nil {
		c.logger.Warn("resolve failed",
			"batch", manifest.BatchID,
			"attempt", attempt,
			"error", err)
		c.event(LevelError, "Resolve failed: %v", err)
		return model.Outcome{Total: len(names), Failed: append([]string(nil), names...)}
	}

	c.session.CacheLocations(locations)

	c.setState(StateScheduling)
	return c.scheduler.Schedule(ctx, manifest.Subset(names), locations)
}

// FetchOne re-retrieves a single stem from the current manifest, outside
// the batch retry machinery. The cached location is reused when present;
// otherwise the name is resolved on its own and only that stem's cache
// entry is refreshed. FetchOne is a one-shot: failures are returned, not
// retried.
func (c *Controller) FetchOne(ctx context.Context, name string) error {
	manifest := c.session.Manifest()
	if manifest == nil {
		return fmt.Errorf("%w: %q", ErrUnknownStem, name)
	}

	stem := manifest.Stem(name)
	if stem == nil {
		return fmt.Errorf("%w: %q", ErrUnknownStem, name)
	}

	loc, ok := c.session.Location(name)
	if !ok {
		locations, err := c.resolver.Resolve(ctx, manifest.BatchID, []string{name})
		if err != nil {
			return fmt.Errorf("re-fetch %s: %w", name, err)
		}

		found := false
		for _, l := range locations {
			if l.Name == name {
				loc = l
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("re-fetch %s: no location resolved", name)
		}

		c.session.CacheLocation(loc)
	}

	if err := c.scheduler.ScheduleOne(ctx, stem, loc); err != nil {
		return fmt.Errorf("re-fetch %s: %w", name, err)
	}

	return nil
}

func (c *Controller) finish(ctx context.Context, manifest *model.Manifest, terminal model.TerminalState, outcome model.Outcome) (model.TerminalState, model.Outcome, error) {
	switch terminal {
	case model.TerminalAllSucceeded:
		c.setState(StateSucceeded)
		c.event(LevelSuccess, "Retrieved all %d stems for %s", len(outcome.Succeeded), manifest.Song)
	case model.TerminalExhausted:
		c.setState(StateExhausted)
		c.logger.Warn("giving up on batch",
			"batch", manifest.BatchID,
			"failed", outcome.Failed)
		c.event(LevelError, "Gave up on %d stems: %v", len(outcome.Failed), outcome.Failed)
	}

	c.cleanup(ctx, manifest)

	if c.OnTerminal != nil {
		c.OnTerminal(terminal, outcome)
	}

	return terminal, outcome, nil
}

// cleanup triggers remote cleanup at most once per batch. It is
// best-effort: failures are logged and never change the batch outcome.
func (c *Controller) cleanup(ctx context.Context, manifest *model.Manifest) {
	if !c.session.MarkCleanup() {
		return
	}

	// Cleanup still runs when the batch context was canceled.
	ctx = context.WithoutCancel(ctx)

	if err := c.cleaner.Cleanup(ctx, manifest); err != nil {
		c.logger.Warn("remote cleanup failed", "batch", manifest.BatchID, "error", err)
		c.event(LevelWarning, "Remote cleanup failed for %s: %v", manifest.BatchID, err)
		return
	}

	c.event(LevelVerbose, "Cleaned up remote batch %s", manifest.BatchID)
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *Controller) event(level ProgressLevel, format string, args ...any) {
	if c.OnEvent == nil {
		return
	}
	c.OnEvent(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
}

func stemNames(stems []*model.Stem) []string {
	names := make([]string, len(stems))
	for i, s := range stems {
		names[i] = s.Name
	}
	return names
}
