package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/logger"
	"github.com/ytget/yt-mp3/internal/model"
)

type fakeDownloader struct {
	mu       sync.Mutex
	forms    []model.FormState
	events   []model.StatusEvent
	startErr error
}

func (f *fakeDownloader) Download(ctx context.Context, form model.FormState, onEvent func(model.StatusEvent)) (*model.DownloadResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeDownloader) Start(ctx context.Context, form model.FormState) (<-chan model.StatusEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, form)
	if f.startErr != nil {
		return nil, f.startErr
	}
	ch := make(chan model.StatusEvent, len(f.events))
	for _, e := range f.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func (f *fakeDownloader) calls() []model.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FormState(nil), f.forms...)
}

type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	successes []*model.DownloadResult
}

func (r *recordingNotifier) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recordingNotifier) ShowSuccess(result *model.DownloadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, result)
}

func (r *recordingNotifier) snapshot() ([]string, []*model.DownloadResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...), append([]*model.DownloadResult(nil), r.successes...)
}

func (r *recordingNotifier) total() int {
	errs, oks := r.snapshot()
	return len(errs) + len(oks)
}

func newTestUI(t *testing.T, dl *fakeDownloader) (*RootUI, *recordingNotifier) {
	t.Helper()
	test.NewApp()
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	ui := NewRootUI(context.Background(), w, dl, config.NewSettings(), logger.Discard())
	rec := &recordingNotifier{}
	ui.notifier = rec
	return ui, rec
}

func waitForOutcome(t *testing.T, rec *recordingNotifier) {
	t.Helper()
	require.Eventually(t, func() bool { return rec.total() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewRootUIDefaults(t *testing.T) {
	ui, _ := newTestUI(t, &fakeDownloader{})

	dir, _ := ui.dir.Get()
	assert.NotEmpty(t, dir, "destination should default to the Downloads folder")

	status, _ := ui.status.Get()
	assert.Equal(t, "Status: waiting", status)
	assert.Equal(t, "YouTube MP3 Downloader", ui.window.Title())
	assert.Contains(t, ui.downloadBtn.Text, "Download")
}

func TestDownloadRejectsMissingLink(t *testing.T) {
	dl := &fakeDownloader{}
	ui, rec := newTestUI(t, dl)
	_ = ui.link.Set("   ")

	ui.onDownloadClick()

	errs, _ := rec.snapshot()
	require.Len(t, errs, 1)
	assert.Equal(t, "Please enter a video link.", errs[0])
	assert.Empty(t, dl.calls())
	assert.False(t, ui.linkEntry.Disabled())
}

func TestDownloadRejectsMissingDir(t *testing.T) {
	dl := &fakeDownloader{}
	ui, rec := newTestUI(t, dl)
	_ = ui.dir.Set("")
	_ = ui.link.Set("https://example.com/v")

	ui.onDownloadClick()

	errs, _ := rec.snapshot()
	require.Len(t, errs, 1)
	assert.Equal(t, "Please choose a save location.", errs[0])
	assert.Empty(t, dl.calls())
}

func TestDownloadSuccess(t *testing.T) {
	result := &model.DownloadResult{Dir: "/music", OutputPath: "/music/My Song.mp3"}
	dl := &fakeDownloader{events: []model.StatusEvent{
		{Kind: model.StatusDownloading, Downloaded: 50, Total: 100},
		{Kind: model.StatusFinished},
		{Kind: model.StatusSucceeded, Result: result},
	}}
	ui, rec := newTestUI(t, dl)
	_ = ui.dir.Set("/music")
	_ = ui.link.Set(" https://example.com/v ")
	_ = ui.title.Set("My Song")

	ui.onDownloadClick()
	waitForOutcome(t, rec)

	errs, oks := rec.snapshot()
	assert.Empty(t, errs)
	require.Len(t, oks, 1)
	assert.Equal(t, result, oks[0])

	calls := dl.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, model.FormState{Dir: "/music", Link: " https://example.com/v ", Title: "My Song"}, calls[0])

	status, _ := ui.status.Get()
	assert.Equal(t, "Download complete!", status)
	assert.False(t, ui.linkEntry.Disabled())
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestDownloadFailure(t *testing.T) {
	engineErr := &download.Error{Kind: download.KindEngine, Op: download.OpExtract, Err: errors.New("HTTP Error 403")}
	dl := &fakeDownloader{events: []model.StatusEvent{
		{Kind: model.StatusFinished},
		{Kind: model.StatusFailed, Err: engineErr},
	}}
	ui, rec := newTestUI(t, dl)
	_ = ui.link.Set("https://example.com/v")

	ui.onDownloadClick()
	waitForOutcome(t, rec)

	errs, oks := rec.snapshot()
	assert.Empty(t, oks)
	require.Len(t, errs, 1)
	assert.Equal(t, "An error occurred: HTTP Error 403", errs[0])

	status, _ := ui.status.Get()
	assert.Equal(t, "Status: failed", status)
	assert.False(t, ui.titleEntry.Disabled())
}

func TestDownloadBusy(t *testing.T) {
	dl := &fakeDownloader{startErr: download.ErrBusy}
	ui, rec := newTestUI(t, dl)
	_ = ui.link.Set("https://example.com/v")

	ui.onDownloadClick()

	errs, _ := rec.snapshot()
	require.Len(t, errs, 1)
	assert.Equal(t, "A download is already in progress.", errs[0])
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestApplyEventResetsOnNextClick(t *testing.T) {
	ui, _ := newTestUI(t, &fakeDownloader{})

	ui.applyEvent(model.StatusEvent{Kind: model.StatusFinished})
	ui.applyEvent(model.StatusEvent{Kind: model.StatusFailed, Err: errors.New("x")})
	assert.Equal(t, model.StatusFailed, ui.machine.Current())

	// Empty link: validation fails but the label is back to Idle first
	ui.onDownloadClick()
	assert.Equal(t, model.StatusIdle, ui.machine.Current())
	status, _ := ui.status.Get()
	assert.Equal(t, "Status: waiting", status)
}

func TestSetInputsEnabled(t *testing.T) {
	ui, _ := newTestUI(t, &fakeDownloader{})

	ui.setInputsEnabled(false)
	assert.True(t, ui.dirEntry.Disabled())
	assert.True(t, ui.linkEntry.Disabled())
	assert.True(t, ui.titleEntry.Disabled())
	assert.True(t, ui.browseBtn.Disabled())
	assert.True(t, ui.downloadBtn.Disabled())

	ui.setInputsEnabled(true)
	assert.False(t, ui.dirEntry.Disabled())
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestOnFolderChosen(t *testing.T) {
	ui, rec := newTestUI(t, &fakeDownloader{})
	_ = ui.dir.Set("/before")

	// Cancelled picker
	ui.onFolderChosen(nil, nil)
	dir, _ := ui.dir.Get()
	assert.Equal(t, "/before", dir)

	picked := t.TempDir()
	lister, err := storage.ListerForURI(storage.NewFileURI(picked))
	require.NoError(t, err)

	ui.onFolderChosen(lister, nil)
	dir, _ = ui.dir.Get()
	assert.Equal(t, picked, dir)

	ui.onFolderChosen(nil, errors.New("portal unavailable"))
	errs, _ := rec.snapshot()
	assert.Equal(t, []string{"portal unavailable"}, errs)
}

func TestLanguageChange(t *testing.T) {
	ui, _ := newTestUI(t, &fakeDownloader{})

	ui.onLanguageChange(LangKorean)

	assert.Equal(t, LangKorean, ui.settings.GetLanguage())
	assert.Equal(t, "YouTube MP3 다운로더", ui.window.Title())
	assert.Equal(t, "저장 경로:", ui.dirLabel.Text)
	assert.Equal(t, IconMusic+" 다운로드", ui.downloadBtn.Text)

	status, _ := ui.status.Get()
	assert.Equal(t, "진행 상황: 대기 중", status)

	menu := ui.window.MainMenu()
	require.NotNil(t, menu)
	require.Len(t, menu.Items, 2)
	var checked []string
	for _, item := range menu.Items[1].Items {
		if item.Checked {
			checked = append(checked, item.Label)
		}
	}
	assert.Equal(t, []string{"한국어"}, checked)
}

func TestCompactTheme(t *testing.T) {
	th := NewCompactTheme()
	assert.Equal(t, float32(3), th.Size(theme.SizeNamePadding))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameScrollBar), th.Size(theme.SizeNameScrollBar))
	assert.NotNil(t, th.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.NotNil(t, th.Font(fyne.TextStyle{}))
}
