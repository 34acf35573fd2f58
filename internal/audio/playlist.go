package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/EricDisero/stemfetch/internal/io"
	"github.com/EricDisero/stemfetch/internal/model"
)

// PlaylistCreator generates an M3U playlist for a retrieved batch.
//
// The playlist lists every stem file in the manifest, in manifest order,
// using paths relative to the batch directory so the playlist stays valid
// when the folder is moved.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreatePlaylist(manifest)
//	os.WriteFile(creator.PlaylistPath(manifest), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,My Song - Vocals
//	// My Song - Vocals.wav
type PlaylistCreator struct {
	extended bool // include EXTINF lines with labels
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// When extended is true the playlist includes #EXTINF lines carrying each
// stem's display label.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreatePlaylist generates playlist content for a manifest.
//
// Returns the playlist as a string, ready to be written to a file. Stem
// durations are not known to stemfetch, so extended entries use -1.
func (p *PlaylistCreator) CreatePlaylist(manifest *model.Manifest) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, stem := range manifest.Stems {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s - %s\n", manifest.Song, stem.Label))
		}
		sb.WriteString(filepath.Base(stem.Path) + "\n")
	}

	return sb.String()
}

// PlaylistPath returns the file path the batch playlist should be saved to.
func (p *PlaylistCreator) PlaylistPath(manifest *model.Manifest) string {
	return filepath.Join(manifest.Dir, ioutils.SanitizeFileName(manifest.Song)+".m3u")
}
