package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/EricDisero/stemfetch/internal/model"
)

// TagEditAction defines how to handle an individual ID3 tag.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag from the stem's metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field stemfetch
// writes.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Title:      TagModify,      // "Vocals"
//	    Album:      TagModify,      // the song name
//	    Grouping:   TagModify,      // the stem category
//	    Comments:   TagEmpty,       // clear whatever the pipeline left
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, TagStem does nothing.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame, written from the stem label.
	Title TagEditAction

	// Album controls the TALB (Album title) frame, written from the song name.
	Album TagEditAction

	// Grouping controls the TIT1 (Content group) frame, written from the
	// stem category.
	Grouping TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration: title, album,
// and grouping written from the stem, comments cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Title:      TagModify,
		Album:      TagModify,
		Grouping:   TagModify,
		Comments:   TagEmpty,
	}
}

// Tagger writes ID3 tags to retrieved MP3 stems.
//
// Tagger uses the id3v2 library to label each stem file with its display
// label, the song it was separated from, and its category. Stems in
// formats without ID3 support (WAV and friends) are skipped.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.TagStem(stem); err != nil {
//	    log.Printf("failed to tag %s: %v", stem.Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Taggable reports whether the stem's file format supports ID3 tags.
func Taggable(stem *model.Stem) bool {
	return strings.EqualFold(filepath.Ext(stem.Path), ".mp3")
}

// TagStem writes ID3 tags to the stem's file.
//
// The file must already exist (TagStem runs after a transfer completes).
// Non-MP3 stems are skipped without error, as is everything when the
// config's master switch is off.
func (t *Tagger) TagStem(stem *model.Stem) error {
	if !t.config.ModifyTags || !Taggable(stem) {
		return nil
	}

	tag, err := id3v2.Open(stem.Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	t.updateStringTags(tag, stem)

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, stem *model.Stem) {
	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(stem.Manifest.Song + " - " + stem.Label)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(stem.Manifest.Song)
	}

	// Content group (TIT1)
	switch t.config.Grouping {
	case TagEmpty:
		tag.DeleteFrames("TIT1")
	case TagModify:
		tag.AddTextFrame("TIT1", id3v2.EncodingUTF8, stem.Category)
	}

	// Comments (COMM)
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		comment := id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        "batch " + stem.Manifest.BatchID,
		}
		tag.AddCommentFrame(comment)
	}
}
