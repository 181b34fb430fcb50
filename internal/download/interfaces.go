package download

import (
	"context"

	"github.com/ytget/yt-mp3/internal/model"
)

// EngineRequest is the configuration handed to the extraction engine
type EngineRequest struct {
	Link           string
	OutputDir      string
	OutputTemplate string // absolute, e.g. "/music/%(title)s.%(ext)s"
	FormatSelector string // e.g. "bestaudio/best"
	AudioFormat    string // post-processor target container, e.g. "mp3"
	AudioQuality   string // post-processor target bitrate in kbps, e.g. "192"
	TranscoderPath string // location of the ffmpeg binary
}

// EngineResult is the metadata returned by the engine after a download
type EngineResult struct {
	Title    string // source-provided title
	Filename string // file written by the engine before post-processing, if known
}

// Engine resolves a link, downloads it and runs the audio post-processor.
// Extract blocks until the engine is done and calls onProgress from the
// calling goroutine or a goroutine of its own; it never retries.
type Engine interface {
	Extract(ctx context.Context, req EngineRequest, onProgress func(model.ProgressEvent)) (*EngineResult, error)
}

// TranscoderResolver returns the path of the transcoder executable
type TranscoderResolver interface {
	Resolve() (string, error)
}

// Downloader is what the UI and the CLI depend on
type Downloader interface {
	Download(ctx context.Context, form model.FormState, onEvent func(model.StatusEvent)) (*model.DownloadResult, error)
	Start(ctx context.Context, form model.FormState) (<-chan model.StatusEvent, error)
}
