package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/yt-mp3/internal/model"
)

// Engine configuration defaults
const (
	DefaultFormatSelector = "bestaudio/best"
	DefaultOutputTemplate = "%(title)s.%(ext)s"
	DefaultAudioFormat    = "mp3"
	DefaultAudioQuality   = "192"

	// UnknownTitle names the file when the engine reports no title
	UnknownTitle = "Unknown Title"

	// EventBufferSize is the capacity of the channel returned by Start
	EventBufferSize = 64

	JobIDPrefix = "job-"
)

// Options controls what the engine is asked to produce
type Options struct {
	FormatSelector string
	OutputTemplate string // file name template, joined with the destination dir
	AudioFormat    string
	AudioQuality   string
}

// DefaultOptions returns best-audio selection converted to 192 kbps mp3
func DefaultOptions() Options {
	return Options{
		FormatSelector: DefaultFormatSelector,
		OutputTemplate: DefaultOutputTemplate,
		AudioFormat:    DefaultAudioFormat,
		AudioQuality:   DefaultAudioQuality,
	}
}

// Service runs link-to-mp3 invocations, one at a time
type Service struct {
	engine     Engine
	transcoder TranscoderResolver
	opts       Options
	logger     *slog.Logger
	busy       atomic.Bool
	now        func() time.Time
}

// NewService creates a new download service
func NewService(engine Engine, transcoder TranscoderResolver, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.FormatSelector == "" {
		opts.FormatSelector = defaults.FormatSelector
	}
	if opts.OutputTemplate == "" {
		opts.OutputTemplate = defaults.OutputTemplate
	}
	if opts.AudioFormat == "" {
		opts.AudioFormat = defaults.AudioFormat
	}
	if opts.AudioQuality == "" {
		opts.AudioQuality = defaults.AudioQuality
	}
	return &Service{
		engine:     engine,
		transcoder: transcoder,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Validate checks that the link and the destination are present.
// The link is checked first; the title is always optional.
func Validate(form model.FormState) error {
	form = form.Normalized()
	if form.Link == "" {
		return validationError(FieldLink, ErrMissingLink)
	}
	if form.Dir == "" {
		return validationError(FieldDir, ErrMissingDir)
	}
	return nil
}

// Busy reports whether an invocation is in flight
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// Download runs one invocation on the calling goroutine. Events are delivered
// to onEvent in order: zero or more Downloading, one Finished, then one
// Succeeded or Failed. A validation failure returns before any event.
func (s *Service) Download(ctx context.Context, form model.FormState, onEvent func(model.StatusEvent)) (*model.DownloadResult, error) {
	form = form.Normalized()
	if err := Validate(form); err != nil {
		return nil, err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	return s.run(ctx, form, onEvent)
}

// Start validates the form and runs the invocation on a worker goroutine.
// The returned channel receives the same events as Download and is closed
// after the terminal one.
func (s *Service) Start(ctx context.Context, form model.FormState) (<-chan model.StatusEvent, error) {
	form = form.Normalized()
	if err := Validate(form); err != nil {
		return nil, err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}

	events := make(chan model.StatusEvent, EventBufferSize)
	go func() {
		defer close(events)

		// The guard is released exactly once. A receiver reacting to the
		// terminal event may start again, and that invocation owns it then.
		released := false
		release := func() {
			if !released {
				released = true
				s.busy.Store(false)
			}
		}
		defer release()

		_, _ = s.run(ctx, form, func(e model.StatusEvent) {
			if e.Kind.IsTerminal() {
				release()
			}
			events <- e
		})
	}()

	return events, nil
}

// run performs an invocation for a validated form
func (s *Service) run(ctx context.Context, form model.FormState, onEvent func(model.StatusEvent)) (*model.DownloadResult, error) {
	jobID := generateJobID()
	log := s.logger.With(slog.String("job", jobID))
	log.Info("download started", slog.String("link", form.Link), slog.String("dir", form.Dir))

	r := newReporter(onEvent, log)
	startedAt := s.now()

	result, err := s.extract(ctx, form, r, log)

	r.finish()
	if err != nil {
		log.Error("download failed", slog.String("kind", string(KindOf(err))), slog.Any("error", err))
		r.fail(err)
		return nil, err
	}

	result.JobID = jobID
	result.StartedAt = startedAt
	result.FinishedAt = s.now()

	log.Info("download succeeded",
		slog.String("title", result.GetDisplayTitle()),
		slog.String("output", result.OutputPath),
		slog.Bool("renamed", result.Renamed),
	)
	r.succeed(result)
	return result, nil
}

// extract calls the engine and applies the optional rename
func (s *Service) extract(ctx context.Context, form model.FormState, r *reporter, log *slog.Logger) (*model.DownloadResult, error) {
	transcoderPath, err := s.transcoder.Resolve()
	if err != nil {
		return nil, filesystemError(OpResolveTranscoder, err)
	}
	log.Debug("transcoder resolved", slog.String("path", transcoderPath))

	req := s.buildRequest(form, transcoderPath)
	res, err := s.engine.Extract(ctx, req, r.progress)
	if err != nil {
		return nil, engineError(OpExtract, err)
	}
	if res == nil {
		res = &EngineResult{}
	}

	original := s.outputPath(form.Dir, res)
	result := &model.DownloadResult{
		Dir:          form.Dir,
		Title:        res.Title,
		OriginalPath: original,
		OutputPath:   original,
	}

	if form.HasCustomTitle() {
		target := filepath.Join(form.Dir, form.Title+"."+s.opts.AudioFormat)
		// The source is not checked first; a missing file fails the rename.
		if err := os.Rename(original, target); err != nil {
			return nil, filesystemError(OpRename, err)
		}
		log.Debug("renamed output", slog.String("from", original), slog.String("to", target))
		result.OutputPath = target
		result.Renamed = true
	}

	return result, nil
}

// buildRequest assembles the engine configuration for form
func (s *Service) buildRequest(form model.FormState, transcoderPath string) EngineRequest {
	return EngineRequest{
		Link:           form.Link,
		OutputDir:      form.Dir,
		OutputTemplate: filepath.Join(form.Dir, s.opts.OutputTemplate),
		FormatSelector: s.opts.FormatSelector,
		AudioFormat:    s.opts.AudioFormat,
		AudioQuality:   s.opts.AudioQuality,
		TranscoderPath: transcoderPath,
	}
}

// outputPath returns where the post-processor left the audio file. The stem of
// the engine's own filename wins over the raw title since the engine may have
// sanitized it.
func (s *Service) outputPath(dir string, res *EngineResult) string {
	stem := res.Title
	if res.Filename != "" {
		base := filepath.Base(res.Filename)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if stem == "" {
		stem = UnknownTitle
	}
	return filepath.Join(dir, stem+"."+s.opts.AudioFormat)
}

// reporter turns engine progress into ordered status events
type reporter struct {
	mu      sync.Mutex
	machine *model.StatusMachine
	emit    func(model.StatusEvent)
	logger  *slog.Logger
}

func newReporter(emit func(model.StatusEvent), logger *slog.Logger) *reporter {
	if emit == nil {
		emit = func(model.StatusEvent) {}
	}
	return &reporter{
		machine: model.NewStatusMachine(),
		emit:    emit,
		logger:  logger,
	}
}

// progress is the hook handed to the engine
func (r *reporter) progress(p model.ProgressEvent) {
	switch p.Status {
	case model.ProgressDownloading:
		r.mu.Lock()
		defer r.mu.Unlock()
		// Late progress after the transfer phase ended is dropped.
		if r.machine.Transition(model.StatusDownloading) != nil {
			return
		}
		r.emit(model.StatusEvent{
			Kind:       model.StatusDownloading,
			Downloaded: p.DownloadedBytes,
			Total:      p.Total(),
			ETASec:     p.ETASec,
		})
	case model.ProgressFinished:
		r.finish()
	}
}

// finish emits Finished unless it was already emitted
func (r *reporter) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.machine.Current() == model.StatusFinished {
		return
	}
	if err := r.machine.Transition(model.StatusFinished); err != nil {
		r.logger.Warn("finish ignored", slog.Any("error", err))
		return
	}
	r.emit(model.StatusEvent{Kind: model.StatusFinished})
}

func (r *reporter) succeed(result *model.DownloadResult) {
	r.terminal(model.StatusEvent{Kind: model.StatusSucceeded, Result: result})
}

func (r *reporter) fail(err error) {
	r.terminal(model.StatusEvent{Kind: model.StatusFailed, Err: err})
}

func (r *reporter) terminal(e model.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.machine.Transition(e.Kind); err != nil {
		r.logger.Warn("terminal event ignored", slog.Any("error", err))
		return
	}
	r.emit(e)
}

// generateJobID generates a unique job ID using UUID v7
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
