package model

import (
	"strings"

	"github.com/google/uuid"
)

// Manifest represents one batch of separated stems to retrieve.
//
// Manifest holds the immutable list of stems for a retrieval session plus
// the batch identifier used to correlate resolve and cleanup calls with
// the remote store. The stem list is fixed at construction; a new batch
// gets a new Manifest.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:  "/stems/{song}",
//	    FileNameFormat: "{song} - {label}.wav",
//	}
//	manifest := NewManifest("My Song", StandardStems(), cfg)
//	// manifest.BatchID = "My Song-3f2a9c1e"
//	// manifest.Dir     = "/stems/My Song"
type Manifest struct {
	// BatchID identifies this batch in resolve and cleanup calls.
	// Derived from the song name plus a random suffix so repeated
	// retrievals of the same song never collide.
	BatchID string

	// Song is the base name the batch was created from.
	Song string

	// Stems contains all stems in this batch, in pipeline output order.
	Stems []*Stem

	// Dir is the computed local directory where stem files will be saved.
	Dir string
}

// NewManifest creates a Manifest for the given song with the given stems.
//
// The batch ID is derived from the sanitized song name plus a short random
// suffix. If specs is nil, StandardStems() is used. Stem paths are computed
// from cfg at construction and are fixed for the life of the manifest.
func NewManifest(song string, specs []StemSpec, cfg *PathConfig) *Manifest {
	if specs == nil {
		specs = StandardStems()
	}

	manifest := &Manifest{
		BatchID: sanitizeFileName(song) + "-" + uuid.NewString()[:8],
		Song:    song,
	}
	manifest.Dir = manifest.parseDir(cfg)

	for _, spec := range specs {
		manifest.Stems = append(manifest.Stems, NewStem(manifest, spec.Name, spec.Category, spec.Label, cfg))
	}

	return manifest
}

// Stem returns the stem with the given name, or nil if the manifest does
// not contain it.
func (m *Manifest) Stem(name string) *Stem {
	for _, s := range m.Stems {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Names returns the stem names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Stems))
	for i, s := range m.Stems {
		names[i] = s.Name
	}
	return names
}

// Subset returns the stems whose names appear in names, preserving the
// order of names. Unknown names are skipped.
func (m *Manifest) Subset(names []string) []*Stem {
	var stems []*Stem
	for _, name := range names {
		if s := m.Stem(name); s != nil {
			stems = append(stems, s)
		}
	}
	return stems
}

// parseDir computes the batch directory from the config template.
func (m *Manifest) parseDir(cfg *PathConfig) string {
	dir := cfg.DownloadsPath
	dir = strings.ReplaceAll(dir, "{song}", sanitizeFileName(m.Song))
	dir = strings.ReplaceAll(dir, "{batch}", sanitizeFileName(m.BatchID))

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(dir) >= 248 {
		dir = dir[:247]
	}

	return dir
}
