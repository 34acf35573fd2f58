package model

// ResolvedLocation is a signed, time-limited retrieval location for one
// stem, produced by a resolver. It is associated with a Stem by Name.
//
// Locations expire; a ResolvedLocation is only valid for the attempt it
// was resolved for, so retries re-resolve rather than reuse stale URLs
// from failed attempts.
type ResolvedLocation struct {
	// Name is the stem name this location belongs to.
	Name string

	// Location is the signed URL to retrieve the stem from.
	Location string

	// Category echoes the stem category reported by the resolver.
	Category string
}

// Outcome summarizes one scheduling pass: which stems were attempted and
// how each attempt ended.
//
// Succeeded and Failed preserve attempt order. A stem name appears in
// exactly one of the two slices once the pass completes.
type Outcome struct {
	// Total is the number of stems this pass attempted.
	Total int

	// Succeeded lists the names whose retrieval initiation succeeded.
	Succeeded []string

	// Failed lists the names whose retrieval could not be initiated,
	// including stems the resolver omitted.
	Failed []string
}

// AllSucceeded reports whether the pass completed with no failures.
func (o Outcome) AllSucceeded() bool {
	return len(o.Failed) == 0
}

// Merge folds a later pass into a cumulative view: names that succeeded in
// next are promoted out of the failed set, and any remaining failures are
// carried in next's order.
func (o Outcome) Merge(next Outcome) Outcome {
	succeeded := make([]string, len(o.Succeeded))
	copy(succeeded, o.Succeeded)
	succeeded = append(succeeded, next.Succeeded...)

	return Outcome{
		Total:     o.Total,
		Succeeded: succeeded,
		Failed:    append([]string(nil), next.Failed...),
	}
}

// TerminalState is the final disposition of a batch retrieval run.
type TerminalState int

const (
	// TerminalAllSucceeded means every stem was retrieved.
	TerminalAllSucceeded TerminalState = iota

	// TerminalExhausted means some stems still failed after the maximum
	// number of attempts.
	TerminalExhausted

	// TerminalNoStems means the manifest contained no stems to retrieve.
	TerminalNoStems
)

// String returns a human-readable name for the terminal state.
func (t TerminalState) String() string {
	switch t {
	case TerminalAllSucceeded:
		return "all succeeded"
	case TerminalExhausted:
		return "retries exhausted"
	case TerminalNoStems:
		return "no stems"
	default:
		return "unknown"
	}
}
