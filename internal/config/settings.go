package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/EricDisero/stemfetch/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath          string `json:"downloads_path"`
	FileNameFormat         string `json:"file_name_format"`
	MaxConcurrentTransfers int    `json:"max_concurrent_transfers"`

	// Coordinator timing. The stagger spaces retrieval initiations within
	// one pass; the retry delay spaces whole attempts.
	StaggerMS    int `json:"stagger_ms"`
	RetryDelayMS int `json:"retry_delay_ms"`
	MaxAttempts  int `json:"max_attempts"`

	// Endpoint settings (service mode)
	ResolveURL string `json:"resolve_url"`
	CleanupURL string `json:"cleanup_url"`

	// Bucket settings (direct-bucket mode; takes precedence over the
	// endpoints when set). Example: "s3://stem-batches?region=us-west-2"
	BucketURL          string `json:"bucket_url"`
	SignedURLExpiryMin int    `json:"signed_url_expiry_min"`

	// Network settings
	NetworkTimeoutSec int `json:"network_timeout_sec"`

	// Playlist settings
	CreatePlaylist bool `json:"create_playlist"`
	M3UExtended    bool `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadsPath:          filepath.Join(homeDir, "Music", "Stems", "{song}"),
		FileNameFormat:         "{song} - {label}.wav",
		MaxConcurrentTransfers: 4,

		StaggerMS:    1000,
		RetryDelayMS: 3000,
		MaxAttempts:  3,

		ResolveURL: "",
		CleanupURL: "",

		BucketURL:          "",
		SignedURLExpiryMin: 15,

		NetworkTimeoutSec: 30,

		CreatePlaylist: false,
		M3UExtended:    true,

		ModifyTags: true,
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}
}

// Stagger returns the inter-item stagger as a duration.
func (s *Settings) Stagger() time.Duration {
	return time.Duration(s.StaggerMS) * time.Millisecond
}

// RetryDelay returns the inter-attempt delay as a duration.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

// NetworkTimeout returns the per-request network timeout as a duration.
func (s *Settings) NetworkTimeout() time.Duration {
	return time.Duration(s.NetworkTimeoutSec) * time.Second
}

// SignedURLExpiry returns the signed URL lifetime as a duration.
func (s *Settings) SignedURLExpiry() time.Duration {
	return time.Duration(s.SignedURLExpiryMin) * time.Minute
}
