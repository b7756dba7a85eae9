package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/platform"
)

// Settings keys, used both in the JSON settings file and as environment
// variable names (upper-cased with the VIDS_ prefix)
const (
	KeyDownloadDir    = "download_directory"
	KeyMaxParallel    = "max_parallel_downloads"
	KeyChunkSize      = "chunk_size"
	KeyMaxVideos      = "max_videos"
	KeyRequestTimeout = "request_timeout_seconds"
	KeyUserAgent      = "user_agent"
)

// Environment variable names honoured on top of the settings file
const (
	EnvDownloadDir = "VIDS_DOWNLOAD_DIRECTORY"
	EnvMaxParallel = "VIDS_MAX_PARALLEL_DOWNLOADS"
	EnvChunkSize   = "VIDS_CHUNK_SIZE"
	EnvMaxVideos   = "VIDS_MAX_VIDEOS"
	EnvUserAgent   = "VIDS_USER_AGENT"
)

// Default values
const (
	DefaultMaxParallel    = 5
	DefaultChunkSize      = 1024
	DefaultMaxVideos      = 0 // 0 means unlimited
	DefaultRequestTimeout = 30 * time.Minute
	DefaultPageFile       = "index.html"
	DefaultGalleryFile    = "videos.html"

	// A browser-identifying User-Agent; some origins reject non-browser clients
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// Clamping bounds for the worker pool
	MinParallel = 1
	MaxParallel = 50
)

// settingsData is the on-disk shape of the settings file
type settingsData struct {
	DownloadDir    string `json:"download_directory,omitempty"`
	MaxParallel    int    `json:"max_parallel_downloads,omitempty"`
	ChunkSize      int    `json:"chunk_size,omitempty"`
	MaxVideos      int    `json:"max_videos,omitempty"`
	RequestTimeout int    `json:"request_timeout_seconds,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
}

// Settings manages application configuration backed by a JSON settings file.
// Getters fall back to documented defaults; setters clamp and persist.
type Settings struct {
	path string
	data settingsData
}

// NewSettings creates a settings manager backed by the given file path. A
// missing or unreadable file yields defaults; it is created on first write.
func NewSettings(path string) *Settings {
	s := &Settings{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Printf("ignoring malformed settings file %s: %v", path, err)
		s.data = settingsData{}
	}
	return s
}

// ApplyEnvOverrides layers VIDS_* environment variables over the file-backed
// values. Invalid numeric values are ignored.
func (s *Settings) ApplyEnvOverrides() {
	if dir := os.Getenv(EnvDownloadDir); dir != "" {
		s.data.DownloadDir = dir
	}
	if v, ok := envInt(EnvMaxParallel); ok {
		if v < MinParallel {
			v = MinParallel
		}
		if v > MaxParallel {
			v = MaxParallel
		}
		s.data.MaxParallel = v
	}
	if v, ok := envInt(EnvChunkSize); ok {
		s.data.ChunkSize = v
	}
	if v, ok := envInt(EnvMaxVideos); ok {
		s.data.MaxVideos = v
	}
	if ua := os.Getenv(EnvUserAgent); ua != "" {
		s.data.UserAgent = ua
	}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	if s.data.DownloadDir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "downloaded_videos"
		}
		s.SetDownloadDirectory(defaultDir)
	}
	return s.data.DownloadDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.data.DownloadDir = dir
	s.save()
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	if s.data.MaxParallel <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
	}
	return s.data.MaxParallel
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < MinParallel {
		count = MinParallel
	}
	if count > MaxParallel {
		count = MaxParallel
	}
	s.data.MaxParallel = count
	s.save()
}

// GetChunkSize returns the streaming chunk size in bytes
func (s *Settings) GetChunkSize() int {
	if s.data.ChunkSize <= 0 {
		s.SetChunkSize(DefaultChunkSize)
	}
	return s.data.ChunkSize
}

// SetChunkSize sets the streaming chunk size in bytes
func (s *Settings) SetChunkSize(bytes int) {
	if bytes < 1 {
		bytes = DefaultChunkSize
	}
	s.data.ChunkSize = bytes
	s.save()
}

// GetMaxVideos returns the cap on extracted video links; 0 means unlimited
func (s *Settings) GetMaxVideos() int {
	if s.data.MaxVideos < 0 {
		s.SetMaxVideos(DefaultMaxVideos)
	}
	return s.data.MaxVideos
}

// SetMaxVideos sets the cap on extracted video links; 0 means unlimited
func (s *Settings) SetMaxVideos(max int) {
	if max < 0 {
		max = DefaultMaxVideos
	}
	s.data.MaxVideos = max
	s.save()
}

// GetRequestTimeout returns the per-request timeout for page and video fetches
func (s *Settings) GetRequestTimeout() time.Duration {
	if s.data.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(s.data.RequestTimeout) * time.Second
}

// GetUserAgent returns the User-Agent header sent with every request
func (s *Settings) GetUserAgent() string {
	if s.data.UserAgent == "" {
		return DefaultUserAgent
	}
	return s.data.UserAgent
}

// SetUserAgent sets the User-Agent header sent with every request
func (s *Settings) SetUserAgent(ua string) {
	s.data.UserAgent = ua
	s.save()
}

// save persists the current settings; persistence failures are logged, not
// fatal, so a read-only working directory never blocks a run
func (s *Settings) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("failed to encode settings: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		log.Printf("failed to write settings file %s: %v", s.path, err)
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("ignoring non-numeric %s=%q", key, raw)
		return 0, false
	}
	return v, true
}
