package download

import (
	"sync"

	"github.com/EricDisero/stemfetch/internal/model"
)

// Session tracks per-batch retrieval state: the installed manifest, the
// most recently resolved locations, the attempt record, and the flags
// guarding single-batch execution and one-shot cleanup.
//
// Locations survive the batch run so a finished batch can still serve
// single-stem re-fetches; everything else is reset when the next batch
// begins. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	manifest  *model.Manifest
	locations map[string]model.ResolvedLocation

	attempt    int
	lastFailed []string

	inFlight    bool
	cleanupDone bool
}

// NewSession creates an empty Session.
func NewSession() *Session {
	return &Session{}
}

// Begin installs a new manifest and marks the batch in flight, resetting
// the attempt record and cached locations. It returns false, changing
// nothing, if another batch is already in flight.
func (s *Session) Begin(manifest *model.Manifest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return false
	}

	s.inFlight = true
	s.manifest = manifest
	s.locations = make(map[string]model.ResolvedLocation)
	s.attempt = 0
	s.lastFailed = nil
	s.cleanupDone = false

	return true
}

// Finish marks the in-flight batch complete and clears the attempt
// record. The manifest and cached locations are kept for re-fetches.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	s.attempt = 0
	s.lastFailed = nil
}

// InFlight reports whether a batch is currently running.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Manifest returns the most recently installed manifest, or nil.
func (s *Session) Manifest() *model.Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manifest
}

// RecordAttempt notes that attempt number n completed and which names
// were still failing afterwards.
func (s *Session) RecordAttempt(n int, failed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt = n
	s.lastFailed = append([]string(nil), failed...)
}

// Attempt returns the current attempt number and a copy of the names
// that failed it. Before the first attempt both are zero values.
func (s *Session) Attempt() (int, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attempt, append([]string(nil), s.lastFailed...)
}

// CacheLocations stores resolved locations for later lookup, replacing
// any previous entry for the same name.
func (s *Session) CacheLocations(locations []model.ResolvedLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locations == nil {
		s.locations = make(map[string]model.ResolvedLocation, len(locations))
	}
	for _, loc := range locations {
		s.locations[loc.Name] = loc
	}
}

// CacheLocation stores a single resolved location, touching no other
// entries.
func (s *Session) CacheLocation(loc model.ResolvedLocation) {
	s.CacheLocations([]model.ResolvedLocation{loc})
}

// Location returns the cached location for name, if any.
func (s *Session) Location(name string) (model.ResolvedLocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[name]
	return loc, ok
}

// MarkCleanup records the cleanup trigger firing for the current batch.
// It returns false if cleanup was already triggered.
func (s *Session) MarkCleanup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleanupDone {
		return false
	}
	s.cleanupDone = true
	return true
}
