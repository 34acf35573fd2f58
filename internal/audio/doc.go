// Package audio post-processes retrieved stem files.
//
// # Tagging
//
// Tagger writes ID3 metadata to MP3 stems so they show up labelled in a
// DAW or media library:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.TagStem(stem)
//
// Non-MP3 stems (the pipeline usually emits WAV) are skipped without error.
//
// # Playlists
//
// PlaylistCreator generates an M3U playlist for a fully retrieved batch:
//
//	creator := audio.NewPlaylistCreator(true)
//	content := creator.CreatePlaylist(manifest)
//	os.WriteFile(creator.PlaylistPath(manifest), []byte(content), 0644)
package audio
