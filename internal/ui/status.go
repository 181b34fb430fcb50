package ui

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/model"
)

// StatusText renders a status event for the status label
func StatusText(loc *Localization, event model.StatusEvent) string {
	switch event.Kind {
	case model.StatusDownloading:
		if percent, ok := event.PercentText(); ok {
			return fmt.Sprintf(loc.GetText(KeyStatusProgress), percent)
		}
		return loc.GetText(KeyStatusCalculating)
	case model.StatusFinished, model.StatusSucceeded:
		return loc.GetText(KeyStatusFinished)
	case model.StatusFailed:
		return loc.GetText(KeyStatusFailed)
	default:
		return loc.GetText(KeyStatusIdle)
	}
}

// ErrorText renders an invocation error for the error dialog.
// Validation errors name the missing field; filesystem errors get their own
// prefix; everything else is shown with the engine's text untouched.
func ErrorText(loc *Localization, err error) string {
	if errors.Is(err, download.ErrBusy) {
		return loc.GetText(KeyAlreadyRunning)
	}

	if download.IsValidation(err) {
		if errors.Is(err, download.ErrMissingDir) {
			return loc.GetText(KeyPleaseChooseDir)
		}
		return loc.GetText(KeyPleaseEnterURL)
	}

	var dlErr *download.Error
	if errors.As(err, &dlErr) && dlErr.Kind == download.KindFilesystem && dlErr.Op == download.OpRename {
		return fmt.Sprintf(loc.GetText(KeyRenameFailed), dlErr.Err.Error())
	}

	return fmt.Sprintf(loc.GetText(KeyErrorOccurred), err.Error())
}
