// Package app wires settings, the transcoder locator and an extraction engine
// into a download service shared by the desktop and command line binaries.
package app

import (
	"log/slog"

	"github.com/ytget/yt-mp3/internal/assets"
	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/engine"
	"github.com/ytget/yt-mp3/internal/platform"
)

const (
	AppID   = "com.ytget.yt-mp3"
	AppName = "YT MP3"
)

// NewEngine returns the extraction engine selected in settings
func NewEngine(settings *config.Settings, logger *slog.Logger) download.Engine {
	switch settings.GetEngine() {
	case config.EngineNative:
		return engine.NewNative(logger)
	default:
		return engine.NewYTDLP(settings.GetProgressInterval(), logger)
	}
}

// NewTranscoderLocator returns a locator for the ffmpeg bundled into this
// build, if any
func NewTranscoderLocator(version string) *platform.TranscoderLocator {
	return platform.NewTranscoderLocator(assets.FFmpeg(), version)
}

// NewDownloadService builds the service used by both front-ends
func NewDownloadService(settings *config.Settings, version string, logger *slog.Logger) *download.Service {
	locator := NewTranscoderLocator(version)
	logger.Debug("transcoder locator ready", slog.Bool("packaged", locator.Packaged()))

	return download.NewService(
		NewEngine(settings, logger),
		locator,
		settings.DownloadOptions(),
		logger,
	)
}
