package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-mp3/internal/model"
	"github.com/ytget/yt-mp3/internal/platform"
)

// notifier shows the blocking outcome dialogs
type notifier interface {
	ShowError(message string)
	ShowSuccess(result *model.DownloadResult)
}

// dialogNotifier shows Fyne dialogs on the main window
type dialogNotifier struct {
	window       fyne.Window
	localization *Localization
	reveal       func(path string) error
	showCustom   func(title, dismiss string, content fyne.CanvasObject, parent fyne.Window)
}

func newDialogNotifier(window fyne.Window, localization *Localization) *dialogNotifier {
	return &dialogNotifier{
		window:       window,
		localization: localization,
		reveal:       platform.OpenFileInManager,
		showCustom:   dialog.ShowCustom,
	}
}

// ShowError shows message under the localized error title
func (d *dialogNotifier) ShowError(message string) {
	body := widget.NewLabel(message)
	body.Wrapping = fyne.TextWrapWord
	d.showCustom(d.localization.GetText(KeyErrorTitle), d.localization.GetText(KeyClose), body, d.window)
}

// ShowSuccess names the destination folder and offers to reveal the file
func (d *dialogNotifier) ShowSuccess(result *model.DownloadResult) {
	if result == nil {
		return
	}

	message := widget.NewLabel(fmt.Sprintf(d.localization.GetText(KeyDoneMessage), result.Dir))
	message.Wrapping = fyne.TextWrapWord

	confirm := dialog.NewCustomConfirm(
		d.localization.GetText(KeyDoneTitle),
		d.localization.GetText(KeyShowInFolder),
		d.localization.GetText(KeyClose),
		message,
		func(reveal bool) {
			if !reveal {
				return
			}
			if err := d.reveal(result.OutputPath); err != nil {
				d.ShowError(fmt.Sprintf("%s: %v", d.localization.GetText(KeyErrorOpeningFile), err))
			}
		},
		d.window,
	)
	confirm.Show()
}
