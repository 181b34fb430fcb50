//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/logger"
	"github.com/ytget/yt-mp3/internal/model"
	"github.com/ytget/yt-mp3/internal/ui"
)

// scriptedEngine replays progress and writes "<title>.mp3" like yt-dlp would
type scriptedEngine struct {
	title    string
	progress []model.ProgressEvent
	err      error
	calls    int
}

func (e *scriptedEngine) Extract(ctx context.Context, req download.EngineRequest, onProgress func(model.ProgressEvent)) (*download.EngineResult, error) {
	e.calls++
	for _, p := range e.progress {
		onProgress(p)
	}
	onProgress(model.ProgressEvent{Status: model.ProgressFinished})
	if e.err != nil {
		return nil, e.err
	}

	path := filepath.Join(req.OutputDir, e.title+"."+req.AudioFormat)
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		return nil, err
	}
	return &download.EngineResult{Title: e.title}, nil
}

type fixedResolver struct{}

func (fixedResolver) Resolve() (string, error) { return "ffmpeg", nil }

// downloadContext holds test state for download scenarios
type downloadContext struct {
	dir     string
	tempDir string
	form    model.FormState
	engine  *scriptedEngine
	service *download.Service
	events  []model.StatusEvent
	result  *model.DownloadResult
	err     error
}

// SharedDownloadContext is reset before each scenario via Before hook
var SharedDownloadContext *downloadContext

func getDownloadContext() *downloadContext {
	return SharedDownloadContext
}

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		engine := &scriptedEngine{}
		SharedDownloadContext = &downloadContext{
			engine:  engine,
			service: download.NewService(engine, fixedResolver{}, download.DefaultOptions(), logger.Discard()),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if d := getDownloadContext(); d != nil && d.tempDir != "" {
			os.RemoveAll(d.tempDir)
		}
		SharedDownloadContext = nil
		return c, nil
	})

	ctx.Step(`^an empty destination folder$`, anEmptyDestinationFolder)
	ctx.Step(`^the link "([^"]*)"$`, theLink)
	ctx.Step(`^the destination is "([^"]*)"$`, theDestinationIs)
	ctx.Step(`^the custom title "([^"]*)"$`, theCustomTitle)
	ctx.Step(`^the engine resolves the title "([^"]*)"$`, theEngineResolvesTheTitle)
	ctx.Step(`^the engine reports (\d+) of (\d+) bytes$`, theEngineReportsOfBytes)
	ctx.Step(`^the engine fails with "([^"]*)"$`, theEngineFailsWith)
	ctx.Step(`^I start the download$`, iStartTheDownload)
	ctx.Step(`^the download is rejected because the "([^"]*)" is missing$`, theDownloadIsRejectedBecauseTheIsMissing)
	ctx.Step(`^the engine was not invoked$`, theEngineWasNotInvoked)
	ctx.Step(`^no status events were emitted$`, noStatusEventsWereEmitted)
	ctx.Step(`^the download succeeds$`, theDownloadSucceeds)
	ctx.Step(`^the folder contains "([^"]*)"$`, theFolderContains)
	ctx.Step(`^the folder does not contain "([^"]*)"$`, theFolderDoesNotContain)
	ctx.Step(`^the progress percentage is "([^"]*)"$`, theProgressPercentageIs)
	ctx.Step(`^the status reads "([^"]*)"$`, theStatusReads)
	ctx.Step(`^the download fails with "([^"]*)"$`, theDownloadFailsWith)
	ctx.Step(`^no success was reported$`, noSuccessWasReported)
	ctx.Step(`^the events end with "([^"]*)" then "([^"]*)"$`, theEventsEndWithThen)
	ctx.Step(`^a new download can be started$`, aNewDownloadCanBeStarted)
}

func anEmptyDestinationFolder() error {
	d := getDownloadContext()
	dir, err := os.MkdirTemp("", "yt-mp3-feature-*")
	if err != nil {
		return err
	}
	d.tempDir = dir
	d.form.Dir = dir
	return nil
}

func theLink(link string) error {
	getDownloadContext().form.Link = link
	return nil
}

func theDestinationIs(dir string) error {
	getDownloadContext().form.Dir = dir
	return nil
}

func theCustomTitle(title string) error {
	getDownloadContext().form.Title = title
	return nil
}

func theEngineResolvesTheTitle(title string) error {
	getDownloadContext().engine.title = title
	return nil
}

func theEngineReportsOfBytes(downloaded, total int) error {
	e := getDownloadContext().engine
	e.progress = append(e.progress, model.ProgressEvent{
		Status:          model.ProgressDownloading,
		DownloadedBytes: int64(downloaded),
		TotalBytes:      int64(total),
	})
	return nil
}

func theEngineFailsWith(message string) error {
	getDownloadContext().engine.err = errors.New(message)
	return nil
}

func iStartTheDownload() error {
	d := getDownloadContext()
	d.result, d.err = d.service.Download(context.Background(), d.form, func(e model.StatusEvent) {
		d.events = append(d.events, e)
	})
	return nil
}

func theDownloadIsRejectedBecauseTheIsMissing(field string) error {
	d := getDownloadContext()
	var dlErr *download.Error
	if !errors.As(d.err, &dlErr) || dlErr.Kind != download.KindValidation {
		return fmt.Errorf("expected validation error, got %v", d.err)
	}
	if dlErr.Field != field {
		return fmt.Errorf("expected missing %q, got %q", field, dlErr.Field)
	}
	return nil
}

func theEngineWasNotInvoked() error {
	if calls := getDownloadContext().engine.calls; calls != 0 {
		return fmt.Errorf("engine invoked %d times", calls)
	}
	return nil
}

func noStatusEventsWereEmitted() error {
	if events := getDownloadContext().events; len(events) != 0 {
		return fmt.Errorf("expected no events, got %d", len(events))
	}
	return nil
}

func theDownloadSucceeds() error {
	d := getDownloadContext()
	if d.err != nil {
		return fmt.Errorf("expected success, got %v", d.err)
	}
	if len(d.events) == 0 || d.events[len(d.events)-1].Kind != model.StatusSucceeded {
		return fmt.Errorf("last event is not Succeeded: %+v", d.events)
	}
	return nil
}

func theFolderContains(name string) error {
	path := filepath.Join(getDownloadContext().form.Dir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("expected %s: %w", path, err)
	}
	return nil
}

func theFolderDoesNotContain(name string) error {
	path := filepath.Join(getDownloadContext().form.Dir, name)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to be absent, stat error: %v", path, err)
	}
	return nil
}

// firstDownloading returns the first Downloading event of the run
func firstDownloading() (model.StatusEvent, error) {
	for _, e := range getDownloadContext().events {
		if e.Kind == model.StatusDownloading {
			return e, nil
		}
	}
	return model.StatusEvent{}, errors.New("no Downloading event")
}

func theProgressPercentageIs(want string) error {
	e, err := firstDownloading()
	if err != nil {
		return err
	}
	got, ok := e.PercentText()
	if !ok || got != want {
		return fmt.Errorf("expected %q, got %q (known=%v)", want, got, ok)
	}
	return nil
}

func theStatusReads(want string) error {
	e, err := firstDownloading()
	if err != nil {
		return err
	}
	if got := ui.StatusText(ui.NewLocalization(), e); got != want {
		return fmt.Errorf("expected status %q, got %q", want, got)
	}
	return nil
}

func theDownloadFailsWith(message string) error {
	d := getDownloadContext()
	if d.err == nil {
		return errors.New("expected an error")
	}
	if download.KindOf(d.err) != download.KindEngine {
		return fmt.Errorf("expected engine error, got %s", download.KindOf(d.err))
	}
	if d.err.Error() != message {
		return fmt.Errorf("expected engine text %q, got %q", message, d.err.Error())
	}
	return nil
}

func noSuccessWasReported() error {
	d := getDownloadContext()
	if d.result != nil {
		return errors.New("a result was returned")
	}
	for _, e := range d.events {
		if e.Kind == model.StatusSucceeded {
			return errors.New("a Succeeded event was emitted")
		}
	}
	return nil
}

func theEventsEndWithThen(first, last string) error {
	events := getDownloadContext().events
	if len(events) < 2 {
		return fmt.Errorf("expected at least 2 events, got %d", len(events))
	}
	gotFirst := events[len(events)-2].Kind.String()
	gotLast := events[len(events)-1].Kind.String()
	if gotFirst != first || gotLast != last {
		return fmt.Errorf("expected %s then %s, got %s then %s", first, last, gotFirst, gotLast)
	}
	return nil
}

func aNewDownloadCanBeStarted() error {
	d := getDownloadContext()
	if d.service.Busy() {
		return errors.New("service still busy")
	}

	d.engine.err = nil
	d.engine.title = "Song B"
	d.events = nil
	return iStartTheDownloadExpectingSuccess()
}

func iStartTheDownloadExpectingSuccess() error {
	if err := iStartTheDownload(); err != nil {
		return err
	}
	return theDownloadSucceeds()
}
