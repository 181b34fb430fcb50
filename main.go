package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ytget/yt-mp3/internal/app"
	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/logger"
	"github.com/ytget/yt-mp3/internal/platform"
	"github.com/ytget/yt-mp3/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	env := logger.EnvDevelopment
	if version != "dev" {
		env = logger.EnvProduction
	}
	log := logger.New(env)
	log.Info("starting", slog.String("app", app.AppName), slog.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create new Fyne app
	myApp := fyneapp.NewWithID(app.AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(app.AppName)
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// Initialize services
	settings := config.NewSettings()
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		log.Warn("failed to ensure downloads dir", slog.Any("error", err))
	}

	downloadSvc := app.NewDownloadService(settings, version, log)

	// Create and setup UI
	ui.NewRootUI(ctx, myWindow, downloadSvc, settings, log)

	// Show and run
	myWindow.ShowAndRun()
}
