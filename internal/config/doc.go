// Package config provides configuration management for stemfetch.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to PathConfig for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/Stems/{song}
//	// 1s stagger, 3s retry delay, 3 attempts
//	// ID3 tagging enabled for MP3 stems
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/custom/path/{song}"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Download paths and file naming
//   - Resolve and cleanup endpoints, or a direct bucket URL
//   - Stagger, retry delay, and attempt limits
//   - Network timeouts and transfer concurrency
//   - Playlist generation and ID3 tag modification
package config
