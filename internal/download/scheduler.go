package download

import (
	"context"
	"fmt"
	"time"

	"github.com/EricDisero/stemfetch/internal/model"
)

// DefaultStagger is the pause between consecutive retrieval initiations
// when no interval is configured.
const DefaultStagger = time.Second

// Saver initiates the local retrieval of a single stem. A nil error means
// the retrieval was initiated, not that the transfer completed.
type Saver interface {
	Save(ctx context.Context, stem *model.Stem, loc model.ResolvedLocation) error
}

// Scheduler paces retrieval initiations across a batch.
//
// Schedule walks the stems in the order it is given and initiates each
// retrieval through the Saver, pausing a fixed stagger interval between
// initiations so a burst of signed-URL requests does not hit the remote
// store at once. Stems with no resolved location are recorded as failed
// without consuming a stagger slot.
type Scheduler struct {
	saver   Saver
	stagger time.Duration

	// OnEvent, if set, receives per-stem progress messages.
	OnEvent func(ProgressEvent)
}

// NewScheduler creates a Scheduler that initiates retrievals through
// saver, pausing stagger between initiations. A negative stagger falls
// back to DefaultStagger; zero disables pacing.
func NewScheduler(saver Saver, stagger time.Duration) *Scheduler {
	if stagger < 0 {
		stagger = DefaultStagger
	}
	return &Scheduler{
		saver:   saver,
		stagger: stagger,
	}
}

// Schedule initiates retrieval of the given stems in order.
//
// Each stem is matched to its resolved location by name. The first
// initiation happens immediately; every subsequent one waits the stagger
// interval first, so the stem at initiation index i starts no earlier
// than i times the interval after the call began.
//
// The returned outcome records every stem exactly once: initiated stems
// under Succeeded, and under Failed those whose location was missing,
// whose initiation failed, or that were still pending when ctx was
// canceled.
func (s *Scheduler) Schedule(ctx context.Context, stems []*model.Stem, locations []model.ResolvedLocation) model.Outcome {
	byName := make(map[string]model.ResolvedLocation, len(locations))
	for _, loc := range locations {
		byName[loc.Name] = loc
	}

	outcome := model.Outcome{Total: len(stems)}
	started := false

	for i, stem := range stems {
		loc, ok := byName[stem.Name]
		if !ok {
			outcome.Failed = append(outcome.Failed, stem.Name)
			s.event(LevelWarning, "No location resolved for %s", stem.Name)
			continue
		}

		if started {
			if err := sleepCtx(ctx, s.stagger); err != nil {
				for _, rest := range stems[i:] {
					outcome.Failed = append(outcome.Failed, rest.Name)
				}
				return outcome
			}
		}
		started = true

		if err := s.saver.Save(ctx, stem, loc); err != nil {
			outcome.Failed = append(outcome.Failed, stem.Name)
			s.event(LevelWarning, "Could not start %s: %v", stem.Name, err)
			continue
		}

		outcome.Succeeded = append(outcome.Succeeded, stem.Name)
		s.event(LevelVerbose, "Started retrieving %s", stem.Name)
	}

	return outcome
}

// ScheduleOne initiates retrieval of a single stem immediately, bypassing
// ordering and pacing. Used for re-fetching an individual stem.
func (s *Scheduler) ScheduleOne(ctx context.Context, stem *model.Stem, loc model.ResolvedLocation) error {
	if err := s.saver.Save(ctx, stem, loc); err != nil {
		return err
	}
	s.event(LevelVerbose, "Started retrieving %s", stem.Name)
	return nil
}

func (s *Scheduler) event(level ProgressLevel, format string, args ...any) {
	if s.OnEvent == nil {
		return
	}
	s.OnEvent(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
}

// sleepCtx waits for d or until ctx is canceled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
