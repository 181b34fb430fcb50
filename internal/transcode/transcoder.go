// Package transcode converts a downloaded media file into an audio-only file
// by running ffmpeg as a subprocess.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// FFmpeg constants for audio extraction
const (
	MP3Codec           = "libmp3lame"
	DefaultBitrateKbps = "192"

	FFprobeBaseName     = "ffprobe"
	FFmpegBaseName      = "ffmpeg"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// Transcoder extracts audio with ffmpeg
type Transcoder struct {
	ffmpegPath  string
	ffprobePath string
	codec       string
	runner      CommandRunner
}

// Option is a functional option for configuring Transcoder
type Option func(*Transcoder)

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) Option {
	return func(t *Transcoder) {
		t.runner = runner
	}
}

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) Option {
	return func(t *Transcoder) {
		t.ffprobePath = path
	}
}

// New creates a transcoder for the given ffmpeg executable. ffprobe is looked
// up next to it.
func New(ffmpegPath string, opts ...Option) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegBaseName
	}
	t := &Transcoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: siblingProbePath(ffmpegPath),
		codec:       MP3Codec,
		runner:      &ExecCommandRunner{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// siblingProbePath swaps the ffmpeg base name for ffprobe, keeping dir and suffix
func siblingProbePath(ffmpegPath string) string {
	dir, base := filepath.Split(ffmpegPath)
	if !strings.HasPrefix(base, FFmpegBaseName) {
		return FFprobeBaseName
	}
	return dir + FFprobeBaseName + strings.TrimPrefix(base, FFmpegBaseName)
}

// BuildArgs builds the ffmpeg command arguments for an audio-only output
func (t *Transcoder) BuildArgs(inputPath, outputPath, bitrateKbps string) []string {
	if bitrateKbps == "" {
		bitrateKbps = DefaultBitrateKbps
	}
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",           // No video
		"-c:a", t.codec, // Audio codec
		"-b:a", strings.TrimSuffix(bitrateKbps, "k") + "k", // Audio bitrate
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats",
		outputPath,
	}
}

// ToAudio converts inputPath into outputPath. onProgress, if set, receives
// values in [0,1] when the input duration could be probed; without it ffprobe
// is not run. A partial output is removed on failure.
func (t *Transcoder) ToAudio(ctx context.Context, inputPath, outputPath, bitrateKbps string, onProgress func(float64)) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file does not exist: %w", err)
	}

	// Without a duration there is simply no percentage.
	var duration float64
	if onProgress != nil {
		duration, _ = t.Probe(ctx, inputPath)
	}

	w := &progressWriter{total: duration, onProgress: onProgress}
	if err := t.runner.Run(ctx, w, t.ffmpegPath, t.BuildArgs(inputPath, outputPath, bitrateKbps)...); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}
	return nil
}

// Probe returns the duration of a media file in seconds using ffprobe
func (t *Transcoder) Probe(ctx context.Context, filePath string) (float64, error) {
	output, err := t.runner.Output(ctx, t.ffprobePath, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// progressWriter parses ffmpeg "-progress" output written to stderr
type progressWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	total      float64 // seconds
	onProgress func(float64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.handleLine(strings.TrimSpace(line))
	}
	return len(p), nil
}

// handleLine parses a progress line: out_time_us=123456
func (w *progressWriter) handleLine(line string) {
	if w.onProgress == nil || w.total <= 0 || !strings.HasPrefix(line, ProgressTimePrefix) {
		return
	}
	micros, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
	if err != nil {
		return
	}
	progress := float64(micros) / 1000000.0 / w.total
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}
	w.onProgress(progress)
}
