// Package model defines the core data structures used throughout
// the stemfetch application.
//
// # Manifest
//
// Manifest represents one batch of separated stems to retrieve, identified
// by a batch ID derived from the song name:
//
//	manifest := model.NewManifest("My Song", model.StandardStems(), pathConfig)
//	fmt.Println(manifest.BatchID) // Correlates resolve and cleanup calls
//	fmt.Println(manifest.Dir)     // Where stems will be saved
//
// # Stem
//
// Stem describes a single retrievable asset within a manifest:
//
//	stem := manifest.Stem("vocals")
//	fmt.Println(stem.Path) // Full path where the stem will be saved
//
// # Path Configuration
//
// PathConfig controls how stem paths are computed using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:  "/stems/{song}",
//	    FileNameFormat: "{song} - {label}.wav",
//	}
//
// Available placeholders: {song}, {stem}, {label}, {batch}
package model
