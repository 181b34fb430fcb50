package ui

import (
	"context"
	"log/slog"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/model"
)

// RootUI represents the main form
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	downloader   download.Downloader
	settings     *config.Settings
	localization *Localization
	logger       *slog.Logger
	notifier     notifier

	// Form values
	dir    binding.String
	link   binding.String
	title  binding.String
	status binding.String

	machine   *model.StatusMachine
	lastEvent model.StatusEvent

	dirLabel    *widget.Label
	linkLabel   *widget.Label
	titleLabel  *widget.Label
	dirEntry    *widget.Entry
	linkEntry   *widget.Entry
	titleEntry  *widget.Entry
	browseBtn   *widget.Button
	downloadBtn *widget.Button
	statusLabel *widget.Label
}

// NewRootUI creates and initializes the main UI. ctx bounds every download
// started from the form.
func NewRootUI(ctx context.Context, window fyne.Window, downloader download.Downloader, settings *config.Settings, logger *slog.Logger) *RootUI {
	if logger == nil {
		logger = slog.Default()
	}

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		downloader:   downloader,
		settings:     settings,
		localization: localization,
		logger:       logger,
		dir:          binding.NewString(),
		link:         binding.NewString(),
		title:        binding.NewString(),
		status:       binding.NewString(),
		machine:      model.NewStatusMachine(),
		lastEvent:    model.StatusEvent{Kind: model.StatusIdle},
	}
	ui.notifier = newDialogNotifier(window, localization)

	_ = ui.dir.Set(settings.GetDownloadDirectory())
	_ = ui.status.Set(StatusText(localization, ui.lastEvent))

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.dirLabel = widget.NewLabel("")
	ui.linkLabel = widget.NewLabel("")
	ui.titleLabel = widget.NewLabel("")

	ui.dirEntry = widget.NewEntryWithData(ui.dir)
	ui.linkEntry = widget.NewEntryWithData(ui.link)
	ui.titleEntry = widget.NewEntryWithData(ui.title)

	// Trigger download when user presses Enter in the link field
	ui.linkEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.browseBtn = widget.NewButton("", ui.onBrowseClick)
	ui.downloadBtn = widget.NewButton("", ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	ui.statusLabel = widget.NewLabelWithData(ui.status)
	ui.statusLabel.Alignment = fyne.TextAlignCenter

	form := container.New(layout.NewFormLayout(),
		ui.dirLabel, container.NewBorder(nil, nil, nil, ui.browseBtn, ui.dirEntry),
		ui.linkLabel, ui.linkEntry,
		ui.titleLabel, ui.titleEntry,
	)

	content := container.NewVBox(
		form,
		ui.statusLabel,
		container.NewCenter(ui.downloadBtn),
	)

	ui.refreshUITexts()
	ui.window.SetContent(container.NewPadded(content))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	quitItem := fyne.NewMenuItem(ui.localization.GetText(KeyQuit), func() {
		fyne.CurrentApp().Quit()
	})
	quitItem.IsQuit = true

	// Language submenu
	languageMenu := fyne.NewMenu(IconLanguage + " " + ui.localization.GetText(KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(availableLanguages))
	for code := range availableLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		langItem := fyne.NewMenuItem(availableLanguages[code], func() {
			ui.onLanguageChange(code)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), quitItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.dirLabel.SetText(ui.localization.GetText(KeySaveLocation))
	ui.linkLabel.SetText(ui.localization.GetText(KeyVideoLink))
	ui.titleLabel.SetText(ui.localization.GetText(KeyTitleOptional))

	ui.linkEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.titleEntry.SetPlaceHolder(ui.localization.GetText(KeyTitlePlaceholder))

	ui.browseBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyBrowse))
	ui.downloadBtn.SetText(IconMusic + " " + ui.localization.GetText(KeyDownload))

	_ = ui.status.Set(StatusText(ui.localization, ui.lastEvent))
}

// onBrowseClick opens the folder picker
func (ui *RootUI) onBrowseClick() {
	dialog.ShowFolderOpen(ui.onFolderChosen, ui.window)
}

// onFolderChosen stores the picked folder; a cancelled picker changes nothing
func (ui *RootUI) onFolderChosen(uri fyne.ListableURI, err error) {
	if err != nil {
		ui.logger.Warn("folder picker failed", slog.Any("error", err))
		ui.notifier.ShowError(err.Error())
		return
	}
	if uri == nil {
		return
	}
	_ = ui.dir.Set(uri.Path())
}

// formState reads the three bound fields
func (ui *RootUI) formState() model.FormState {
	dir, _ := ui.dir.Get()
	link, _ := ui.link.Get()
	title, _ := ui.title.Get()
	return model.FormState{Dir: dir, Link: link, Title: title}
}

// onDownloadClick validates the form and hands it to the download worker
func (ui *RootUI) onDownloadClick() {
	ui.resetStatus()

	form := ui.formState()
	if err := download.Validate(form); err != nil {
		ui.logger.Debug("form rejected", slog.Any("error", err))
		ui.notifier.ShowError(ErrorText(ui.localization, err))
		return
	}

	events, err := ui.downloader.Start(ui.ctx, form)
	if err != nil {
		ui.logger.Warn("download not started", slog.Any("error", err))
		ui.notifier.ShowError(ErrorText(ui.localization, err))
		return
	}

	ui.setInputsEnabled(false)
	go ui.consume(events)
}

// consume forwards worker events to the UI thread until the channel closes
func (ui *RootUI) consume(events <-chan model.StatusEvent) {
	for event := range events {
		fyne.Do(func() {
			ui.applyEvent(event)
		})
	}
}

// applyEvent renders one status event; must run on the UI thread
func (ui *RootUI) applyEvent(event model.StatusEvent) {
	if err := ui.machine.Transition(event.Kind); err != nil {
		ui.logger.Warn("unexpected status event", slog.Any("error", err))
	}
	ui.lastEvent = event
	_ = ui.status.Set(StatusText(ui.localization, event))

	switch event.Kind {
	case model.StatusSucceeded:
		ui.setInputsEnabled(true)
		ui.notifier.ShowSuccess(event.Result)
	case model.StatusFailed:
		ui.setInputsEnabled(true)
		ui.notifier.ShowError(ErrorText(ui.localization, event.Err))
	}
}

// resetStatus returns the label to Idle before a new invocation
func (ui *RootUI) resetStatus() {
	ui.machine.Reset()
	ui.lastEvent = model.StatusEvent{Kind: model.StatusIdle}
	_ = ui.status.Set(StatusText(ui.localization, ui.lastEvent))
}

// setInputsEnabled toggles every input while a download runs
func (ui *RootUI) setInputsEnabled(enabled bool) {
	entries := []*widget.Entry{ui.dirEntry, ui.linkEntry, ui.titleEntry}
	buttons := []*widget.Button{ui.browseBtn, ui.downloadBtn}

	for _, e := range entries {
		if enabled {
			e.Enable()
		} else {
			e.Disable()
		}
	}
	for _, b := range buttons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}
