package download

import (
	"testing"

	"github.com/EricDisero/stemfetch/internal/model"
)

func TestSessionSingleBatchGuard(t *testing.T) {
	session := NewSession()
	first := testManifest(t, "vocals")
	second := testManifest(t, "bass")

	if !session.Begin(first) {
		t.Fatal("Begin on idle session = false, want true")
	}
	if session.Begin(second) {
		t.Error("Begin while in flight = true, want false")
	}
	if session.Manifest() != first {
		t.Error("rejected Begin replaced the manifest")
	}

	session.Finish()

	if session.InFlight() {
		t.Error("InFlight after Finish = true, want false")
	}
	if !session.Begin(second) {
		t.Error("Begin after Finish = false, want true")
	}
}

func TestSessionBeginResetsState(t *testing.T) {
	session := NewSession()

	session.Begin(testManifest(t, "vocals"))
	session.RecordAttempt(2, []string{"vocals"})
	session.CacheLocations(locationsFor("vocals"))
	if !session.MarkCleanup() {
		t.Fatal("first MarkCleanup = false, want true")
	}
	session.Finish()

	session.Begin(testManifest(t, "bass"))

	if n, failed := session.Attempt(); n != 0 || len(failed) != 0 {
		t.Errorf("attempt record = (%d, %v), want cleared", n, failed)
	}
	if _, ok := session.Location("vocals"); ok {
		t.Error("stale location survived a new batch")
	}
	if !session.MarkCleanup() {
		t.Error("MarkCleanup for new batch = false, want true")
	}
}

func TestSessionMarkCleanupOnce(t *testing.T) {
	session := NewSession()
	session.Begin(testManifest(t, "vocals"))

	if !session.MarkCleanup() {
		t.Fatal("first MarkCleanup = false, want true")
	}
	if session.MarkCleanup() {
		t.Error("second MarkCleanup = true, want false")
	}
}

func TestSessionLocationCache(t *testing.T) {
	session := NewSession()
	session.Begin(testManifest(t, "vocals", "kick"))

	session.CacheLocations(locationsFor("vocals", "kick"))

	loc, ok := session.Location("kick")
	if !ok {
		t.Fatal("kick location not cached")
	}
	if loc.Location == "" {
		t.Error("cached location is empty")
	}

	refreshed := model.ResolvedLocation{Name: "kick", Location: "https://cdn.example.com/fresh/kick.wav"}
	session.CacheLocation(refreshed)

	loc, _ = session.Location("kick")
	if loc.Location != refreshed.Location {
		t.Errorf("Location(kick) = %q, want refreshed entry", loc.Location)
	}

	// Refreshing kick must not touch the other entries.
	if _, ok := session.Location("vocals"); !ok {
		t.Error("vocals entry lost when kick was refreshed")
	}
}

func TestSessionAttemptRecordCopies(t *testing.T) {
	session := NewSession()
	session.Begin(testManifest(t, "vocals"))

	failed := []string{"vocals"}
	session.RecordAttempt(1, failed)
	failed[0] = "mutated"

	if _, got := session.Attempt(); got[0] != "vocals" {
		t.Errorf("attempt record = %v, caller mutation leaked in", got)
	}
}
