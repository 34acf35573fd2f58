package audio

import (
	"strings"
	"testing"

	"github.com/EricDisero/stemfetch/internal/model"
)

func playlistManifest(t *testing.T) *model.Manifest {
	t.Helper()
	cfg := &model.PathConfig{
		DownloadsPath:  "/stems/{song}",
		FileNameFormat: "{song} - {label}.wav",
	}
	return model.NewManifest("My Song", []model.StemSpec{
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
		{Name: "kick", Category: model.CategoryKick, Label: "Kick"},
	}, cfg)
}

func TestCreatePlaylist_Extended(t *testing.T) {
	creator := NewPlaylistCreator(true)
	content := creator.CreatePlaylist(playlistManifest(t))

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	want := []string{
		"#EXTM3U",
		"#EXTINF:-1,My Song - Vocals",
		"My Song - Vocals.wav",
		"#EXTINF:-1,My Song - Kick",
		"My Song - Kick.wav",
	}

	if len(lines) != len(want) {
		t.Fatalf("playlist has %d lines, want %d:\n%s", len(lines), len(want), content)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCreatePlaylist_Simple(t *testing.T) {
	creator := NewPlaylistCreator(false)
	content := creator.CreatePlaylist(playlistManifest(t))

	if strings.Contains(content, "#EXT") {
		t.Errorf("simple playlist should have no EXT lines:\n%s", content)
	}
	if !strings.Contains(content, "My Song - Kick.wav") {
		t.Errorf("playlist missing stem entry:\n%s", content)
	}
}

func TestPlaylistPath(t *testing.T) {
	creator := NewPlaylistCreator(true)
	got := creator.PlaylistPath(playlistManifest(t))

	want := "/stems/My Song/My Song.m3u"
	if got != want {
		t.Errorf("PlaylistPath = %q, want %q", got, want)
	}
}

func TestTaggable(t *testing.T) {
	cfg := &model.PathConfig{
		DownloadsPath:  "/stems/{song}",
		FileNameFormat: "{label}.mp3",
	}
	mp3 := model.NewManifest("Song", []model.StemSpec{
		{Name: "vocals", Category: model.CategoryVocal, Label: "Vocals"},
	}, cfg)

	if !Taggable(mp3.Stem("vocals")) {
		t.Error("Taggable = false for .mp3 stem")
	}

	wav := playlistManifest(t)
	if Taggable(wav.Stem("vocals")) {
		t.Error("Taggable = true for .wav stem")
	}
}
