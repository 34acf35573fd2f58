package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Stem categories produced by the separation pipeline.
//
// The first two are the primary melodic stems, the next four are the
// individual drum components, and CategoryOther covers anything the
// pipeline emits that stemfetch does not recognize (such as the
// "everything else" residue stem).
const (
	CategoryVocal = "vocal"
	CategoryBass  = "bass"
	CategoryKick  = "kick"
	CategorySnare = "snare"
	CategoryToms  = "toms"
	CategoryHats  = "hats"
	CategoryOther = "other"
)

// Stem describes a single retrievable asset within a batch.
//
// Stem contains everything needed to request, save, and label one
// separated audio file:
//   - Name uniquely identifies the stem within its manifest and is the
//     key used by the resolve and cleanup endpoints
//   - Category places the stem into an ordering tier
//   - Label is the human-readable name used for filenames and tags
//   - Path is the computed local file path, set by NewStem
//
// Example:
//
//	cfg := &PathConfig{DownloadsPath: "/stems/{song}", FileNameFormat: "{song} - {label}.wav"}
//	manifest := NewManifest("My Song", nil, cfg)
//	stem := NewStem(manifest, "vocals", CategoryVocal, "Vocals", cfg)
//	// stem.Path = "/stems/My Song/My Song - Vocals.wav"
type Stem struct {
	// Manifest is a reference to the parent manifest.
	Manifest *Manifest

	// Name is the stem identifier, unique within a manifest.
	Name string

	// Category is the ordering category (see the Category constants).
	Category string

	// Label is the display label used in filenames and ID3 tags.
	Label string

	// Path is the computed local file path where the stem will be saved.
	Path string
}

// PathConfig holds path formatting settings for manifests and stems.
//
// Both fields support placeholders that are replaced with actual values:
//   - {song} - The song name the batch was created from
//   - {stem} - The stem name (FileNameFormat only)
//   - {label} - The stem display label (FileNameFormat only)
//   - {batch} - The batch identifier
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:  "/home/user/Stems/{song}",
//	    FileNameFormat: "{song} - {label}.wav",
//	}
type PathConfig struct {
	// DownloadsPath is the base directory template for saving a batch.
	// Example: "/stems/{song}"
	DownloadsPath string

	// FileNameFormat is the template for stem filenames.
	// Must include the file extension (typically ".wav" or ".mp3").
	FileNameFormat string
}

// StemSpec is the static description of a stem before it is bound to a
// manifest: name, ordering category, and display label.
type StemSpec struct {
	Name     string
	Category string
	Label    string
}

// StandardStems returns the seven stems the separation pipeline produces,
// in pipeline output order.
func StandardStems() []StemSpec {
	return []StemSpec{
		{Name: "vocals", Category: CategoryVocal, Label: "Vocals"},
		{Name: "bass", Category: CategoryBass, Label: "Bass"},
		{Name: "kick", Category: CategoryKick, Label: "Kick"},
		{Name: "snare", Category: CategorySnare, Label: "Snare"},
		{Name: "toms", Category: CategoryToms, Label: "Toms"},
		{Name: "hats", Category: CategoryHats, Label: "Hats"},
		{Name: "ee", Category: CategoryOther, Label: "Everything Else"},
	}
}

// NewStem creates a new Stem with a computed file path.
//
// Parameters:
//   - manifest: The parent manifest (required for path computation)
//   - name: Stem identifier, unique within the manifest
//   - category: Ordering category (see the Category constants)
//   - label: Display label used in filenames and tags
//   - cfg: Configuration for file naming
//
// The file path is computed from the manifest's directory and the
// configured filename format. Invalid filename characters are replaced
// with underscores.
func NewStem(manifest *Manifest, name, category, label string, cfg *PathConfig) *Stem {
	stem := &Stem{
		Manifest: manifest,
		Name:     name,
		Category: category,
		Label:    label,
	}

	stem.Path = stem.parseFilePath(cfg)

	return stem
}

// parseFilePath computes the full file path for this stem.
func (s *Stem) parseFilePath(cfg *PathConfig) string {
	fileName := s.parseFileName(cfg)
	filePath := filepath.Join(s.Manifest.Dir, fileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		ext := filepath.Ext(filePath)
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(s.Manifest.Dir, fileName[:maxLen]+ext)
		}
	}

	return filePath
}

// parseFileName computes the filename from the config template.
func (s *Stem) parseFileName(cfg *PathConfig) string {
	fileName := cfg.FileNameFormat
	fileName = strings.ReplaceAll(fileName, "{song}", s.Manifest.Song)
	fileName = strings.ReplaceAll(fileName, "{batch}", s.Manifest.BatchID)
	fileName = strings.ReplaceAll(fileName, "{stem}", s.Name)
	fileName = strings.ReplaceAll(fileName, "{label}", s.Label)
	return sanitizeFileName(fileName)
}

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
