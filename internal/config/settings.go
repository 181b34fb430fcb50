package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/platform"
)

// EngineName selects the extraction engine
type EngineName string

const (
	EngineYTDLP  EngineName = "yt-dlp"
	EngineNative EngineName = "native"
)

// Default values
const (
	DefaultEngine           = EngineYTDLP
	DefaultLanguage         = "system"
	DefaultBitrateKbps      = 192
	MinBitrateKbps          = 32
	MaxBitrateKbps          = 320
	DefaultProgressInterval = 250 * time.Millisecond
	MinProgressInterval     = 50 * time.Millisecond
	MaxProgressInterval     = 5 * time.Second
	FallbackDownloadDir     = "/tmp/downloads"
)

// Settings holds application configuration for the current run.
// Values live in memory only; nothing is written back to disk.
type Settings struct {
	mu sync.RWMutex

	downloadDir      string
	audioFormat      string
	bitrateKbps      int
	formatSelector   string
	outputTemplate   string
	engine           EngineName
	language         string
	progressInterval time.Duration
}

// fileConfig is the optional YAML file read by the command line tool
type fileConfig struct {
	DownloadDir        string `yaml:"download_dir"`
	AudioFormat        string `yaml:"audio_format"`
	AudioQuality       int    `yaml:"audio_quality"`
	FormatSelector     string `yaml:"format_selector"`
	OutputTemplate     string `yaml:"output_template"`
	Engine             string `yaml:"engine"`
	Language           string `yaml:"language"`
	ProgressIntervalMs int    `yaml:"progress_interval_ms"`
}

// NewSettings creates settings populated with defaults
func NewSettings() *Settings {
	return &Settings{
		audioFormat:      download.DefaultAudioFormat,
		bitrateKbps:      DefaultBitrateKbps,
		formatSelector:   download.DefaultFormatSelector,
		outputTemplate:   download.DefaultOutputTemplate,
		engine:           DefaultEngine,
		language:         DefaultLanguage,
		progressInterval: DefaultProgressInterval,
	}
}

// LoadFile returns defaults overridden by the YAML file at path
func LoadFile(path string) (*Settings, error) {
	s := NewSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.DownloadDir != "" {
		s.SetDownloadDirectory(fc.DownloadDir)
	}
	if fc.AudioFormat != "" {
		s.audioFormat = fc.AudioFormat
	}
	if fc.AudioQuality != 0 {
		s.SetBitrateKbps(fc.AudioQuality)
	}
	if fc.FormatSelector != "" {
		s.formatSelector = fc.FormatSelector
	}
	s.SetOutputTemplate(fc.OutputTemplate)
	if fc.Engine != "" {
		if err := s.SetEngine(EngineName(fc.Engine)); err != nil {
			return nil, err
		}
	}
	if fc.Language != "" {
		s.SetLanguage(fc.Language)
	}
	if fc.ProgressIntervalMs != 0 {
		s.SetProgressInterval(time.Duration(fc.ProgressIntervalMs) * time.Millisecond)
	}

	return s, nil
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	s.mu.RLock()
	dir := s.downloadDir
	s.mu.RUnlock()
	if dir != "" {
		return dir
	}

	// Use system default Downloads directory
	defaultDir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		defaultDir = FallbackDownloadDir
	}
	s.SetDownloadDirectory(defaultDir)
	return defaultDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloadDir = dir
}

// GetBitrateKbps returns the mp3 bitrate
func (s *Settings) GetBitrateKbps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bitrateKbps
}

// SetBitrateKbps sets the mp3 bitrate
func (s *Settings) SetBitrateKbps(kbps int) {
	if kbps < MinBitrateKbps {
		kbps = MinBitrateKbps
	}
	if kbps > MaxBitrateKbps {
		kbps = MaxBitrateKbps
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bitrateKbps = kbps
}

// GetOutputTemplate returns the engine file name template
func (s *Settings) GetOutputTemplate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outputTemplate
}

// SetOutputTemplate sets the engine file name template
func (s *Settings) SetOutputTemplate(template string) {
	if template == "" {
		template = download.DefaultOutputTemplate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputTemplate = template
}

// GetEngine returns the selected extraction engine
func (s *Settings) GetEngine() EngineName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetEngine selects the extraction engine
func (s *Settings) SetEngine(name EngineName) error {
	switch name {
	case EngineYTDLP, EngineNative:
	default:
		return fmt.Errorf("unknown engine %q (want %q or %q)", name, EngineYTDLP, EngineNative)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = name
	return nil
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	if lang == "" {
		lang = DefaultLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
}

// GetProgressInterval returns how often engine progress is reported
func (s *Settings) GetProgressInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progressInterval
}

// SetProgressInterval sets how often engine progress is reported
func (s *Settings) SetProgressInterval(d time.Duration) {
	if d < MinProgressInterval {
		d = MinProgressInterval
	}
	if d > MaxProgressInterval {
		d = MaxProgressInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressInterval = d
}

// DownloadOptions returns the engine options for the download service
func (s *Settings) DownloadOptions() download.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return download.Options{
		FormatSelector: s.formatSelector,
		OutputTemplate: s.outputTemplate,
		AudioFormat:    s.audioFormat,
		AudioQuality:   strconv.Itoa(s.bitrateKbps),
	}
}
