package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ytget "github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/model"
	"github.com/ytget/yt-mp3/internal/platform"
	"github.com/ytget/yt-mp3/internal/transcode"
)

// Native engine defaults: a progressive stream, mp4 preferred
const (
	DefaultNativeQuality   = "best"
	DefaultNativeExtension = "mp4"
	ScratchDirPattern      = "yt-mp3-*"
	ScratchSourceName      = "source"
)

// sourceFetcher downloads link to outPath and returns the video title
type sourceFetcher func(ctx context.Context, link, outPath string, onProgress func(downloaded, total int64)) (string, error)

// audioConverter is the part of transcode.Transcoder the engine needs
type audioConverter interface {
	ToAudio(ctx context.Context, inputPath, outputPath, bitrateKbps string, onProgress func(float64)) error
}

// Native fetches the stream in-process and transcodes it with ffmpeg.
// The request's format selector and output template are not used: the
// in-process fetcher only offers progressive streams and the file is always
// named after the sanitized title.
type Native struct {
	quality    string
	extension  string
	scratchDir string // parent of per-run scratch dirs; "" means the OS temp dir
	logger     *slog.Logger

	fetch        sourceFetcher
	newConverter func(ffmpegPath string) audioConverter
}

// NewNative creates a pure-Go engine
func NewNative(logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Native{
		quality:   DefaultNativeQuality,
		extension: DefaultNativeExtension,
		logger:    logger,
		newConverter: func(ffmpegPath string) audioConverter {
			return transcode.New(ffmpegPath)
		},
	}
	n.fetch = n.fetchWithYTGet
	return n
}

// fetchWithYTGet downloads a progressive stream with github.com/ytget/ytdlp
func (n *Native) fetchWithYTGet(ctx context.Context, link, outPath string, onProgress func(downloaded, total int64)) (string, error) {
	dl := ytget.New().
		WithFormat(n.quality, n.extension).
		WithOutputPath(outPath).
		WithProgress(func(p ytget.Progress) {
			onProgress(int64(p.DownloadedSize), int64(p.TotalSize))
		})

	info, err := dl.Download(ctx, link)
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

// Extract downloads into a scratch dir, then converts into req.OutputDir
func (n *Native) Extract(ctx context.Context, req download.EngineRequest, onProgress func(model.ProgressEvent)) (*download.EngineResult, error) {
	if onProgress == nil {
		onProgress = func(model.ProgressEvent) {}
	}
	if req.FormatSelector != "" && req.FormatSelector != download.DefaultFormatSelector {
		n.logger.Debug("format selector ignored by native engine", slog.String("selector", req.FormatSelector))
	}

	scratch, err := os.MkdirTemp(n.scratchDir, ScratchDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	source := filepath.Join(scratch, ScratchSourceName+"."+n.extension)
	title, err := n.fetch(ctx, req.Link, source, func(downloaded, total int64) {
		onProgress(model.ProgressEvent{
			Status:          model.ProgressDownloading,
			DownloadedBytes: downloaded,
			TotalBytes:      total,
			ETASec:          -1,
		})
	})
	if err != nil {
		return nil, err
	}
	onProgress(model.ProgressEvent{Status: model.ProgressFinished, Filename: source})

	stem := platform.SanitizeFileName(title)
	if stem == "" {
		stem = download.UnknownTitle
	}
	output := filepath.Join(req.OutputDir, stem+"."+req.AudioFormat)

	n.logger.Debug("transcoding", slog.String("source", source), slog.String("output", output))
	if err := n.newConverter(req.TranscoderPath).ToAudio(ctx, source, output, req.AudioQuality, n.logTranscodeProgress()); err != nil {
		return nil, err
	}

	return &download.EngineResult{Title: title, Filename: output}, nil
}

// logTranscodeProgress logs conversion progress at debug level, once per
// whole ten percent step
func (n *Native) logTranscodeProgress() func(float64) {
	last := -1
	return func(p float64) {
		step := int(p * 10)
		if step == last {
			return
		}
		last = step
		n.logger.Debug("transcode progress", slog.Int("percent", step*10))
	}
}
