package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/model"
)

// DefaultProgressInterval is how often yt-dlp progress is forwarded
const DefaultProgressInterval = 250 * time.Millisecond

// YTDLP is the default extraction engine
type YTDLP struct {
	progressInterval time.Duration
	logger           *slog.Logger

	install     func(ctx context.Context) error
	installOnce sync.Once
	installErr  error
}

// NewYTDLP creates a yt-dlp backed engine
func NewYTDLP(progressInterval time.Duration, logger *slog.Logger) *YTDLP {
	if progressInterval <= 0 {
		progressInterval = DefaultProgressInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{
		progressInterval: progressInterval,
		logger:           logger,
		install:          installYTDLP,
	}
}

// installYTDLP makes sure a yt-dlp executable is available, downloading it
// into the user cache when it is not on PATH
func installYTDLP(ctx context.Context) error {
	_, err := ytdlp.Install(ctx, nil)
	return err
}

// ensureInstalled runs the install check once per process
func (e *YTDLP) ensureInstalled(ctx context.Context) error {
	e.installOnce.Do(func() {
		e.installErr = e.install(ctx)
		if e.installErr != nil {
			e.logger.Error("yt-dlp install failed", slog.Any("error", e.installErr))
		}
	})
	return e.installErr
}

// Extract downloads req.Link and converts it to audio in a single yt-dlp run
func (e *YTDLP) Extract(ctx context.Context, req download.EngineRequest, onProgress func(model.ProgressEvent)) (*download.EngineResult, error) {
	if err := e.ensureInstalled(ctx); err != nil {
		return nil, fmt.Errorf("yt-dlp is not available: %w", err)
	}

	// Title seen in progress updates, used when the JSON info is missing.
	var (
		mu        sync.Mutex
		seenTitle string
	)

	dl := buildCommand(req).
		ProgressFunc(e.progressInterval, func(update ytdlp.ProgressUpdate) {
			if title := updateTitle(update); title != "" {
				mu.Lock()
				seenTitle = title
				mu.Unlock()
			}
			if onProgress != nil {
				onProgress(toProgressEvent(update))
			}
		})

	res, err := dl.Run(ctx, req.Link)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	result := &download.EngineResult{Title: seenTitle}
	mu.Unlock()

	infos, err := res.GetExtractedInfo()
	if err != nil {
		e.logger.Warn("no extracted info in yt-dlp output", slog.Any("error", err))
		return result, nil
	}
	if len(infos) > 0 {
		if infos[0].Title != nil && *infos[0].Title != "" {
			result.Title = *infos[0].Title
		}
		if infos[0].Filename != nil {
			result.Filename = *infos[0].Filename
		}
	}

	return result, nil
}

// buildCommand configures yt-dlp: best audio, output template, one
// FFmpegExtractAudio post-processor and the ffmpeg location
func buildCommand(req download.EngineRequest) *ytdlp.Command {
	return ytdlp.New().
		Format(req.FormatSelector).
		Output(req.OutputTemplate).
		NoPlaylist().
		ExtractAudio().
		AudioFormat(req.AudioFormat).
		AudioQuality(req.AudioQuality).
		FFmpegLocation(req.TranscoderPath).
		PrintJSON()
}

// toProgressEvent maps a yt-dlp progress update to the engine-neutral event
func toProgressEvent(update ytdlp.ProgressUpdate) model.ProgressEvent {
	event := model.ProgressEvent{
		Status:          model.ProgressStatus(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETASec:          -1,
		Filename:        update.Filename,
	}
	if !update.Started.IsZero() {
		if eta := update.ETA(); eta > 0 {
			event.ETASec = int(eta.Seconds())
		}
	}
	return event
}

// updateTitle returns the video title carried by a progress update, if any
func updateTitle(update ytdlp.ProgressUpdate) string {
	if update.Info == nil || update.Info.Title == nil {
		return ""
	}
	return *update.Info.Title
}
