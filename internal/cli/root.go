// Package cli implements the yt-mp3 command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-mp3/internal/app"
	"github.com/ytget/yt-mp3/internal/config"
	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/logger"
	"github.com/ytget/yt-mp3/internal/model"
)

type options struct {
	dir        string
	title      string
	engine     string
	bitrate    int
	configFile string
	verbose    bool
}

// NewRootCommand builds the yt-mp3 command
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "yt-mp3 <link>",
		Short: "Save the audio track of a video as mp3",
		Long: `yt-mp3 downloads the best audio stream of a video link and converts it
to a 192 kbps mp3 with ffmpeg. The file is named after the video title unless
--title is given.

Example:
  yt-mp3 "https://youtube.com/watch?v=..." --dir ~/Music --title "My Song"
  yt-mp3 "https://youtube.com/watch?v=..." --engine native --config yt-mp3.yaml`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], version)
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Destination folder (default is the Downloads folder)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Output file name without extension (default is the video title)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", `Extraction engine: "yt-dlp" or "native"`)
	cmd.Flags().IntVar(&opts.bitrate, "bitrate", 0, "mp3 bitrate in kbps (default 192)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Optional YAML config file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options, link, version string) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	log := logger.Discard()
	if opts.verbose {
		log = logger.New(logger.EnvDevelopment)
	}

	svc := app.NewDownloadService(settings, version, log)
	form := model.FormState{
		Dir:   settings.GetDownloadDirectory(),
		Link:  link,
		Title: opts.title,
	}

	_, err = RunDownloadWithDependencies(cmd.Context(), svc, form, cmd.OutOrStdout())
	return err
}

// loadSettings applies the config file, then the flags
func loadSettings(opts *options) (*config.Settings, error) {
	settings := config.NewSettings()
	if opts.configFile != "" {
		var err error
		if settings, err = config.LoadFile(opts.configFile); err != nil {
			return nil, err
		}
	}

	if opts.dir != "" {
		settings.SetDownloadDirectory(opts.dir)
	}
	if opts.engine != "" {
		if err := settings.SetEngine(config.EngineName(opts.engine)); err != nil {
			return nil, err
		}
	}
	if opts.bitrate != 0 {
		settings.SetBitrateKbps(opts.bitrate)
	}

	return settings, nil
}

// RunDownloadWithDependencies runs one download with an injected downloader (for testing)
func RunDownloadWithDependencies(ctx context.Context, downloader download.Downloader, form model.FormState, output io.Writer) (*model.DownloadResult, error) {
	form = form.Normalized()
	fmt.Fprintf(output, "Downloading %s into %s...\n", form.Link, form.Dir)

	p := &progressPrinter{out: output}
	result, err := downloader.Download(ctx, form, p.print)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return result, nil
}

// progressPrinter writes one line per distinct status text
type progressPrinter struct {
	out  io.Writer
	last string
}

func (p *progressPrinter) print(event model.StatusEvent) {
	var line string
	switch event.Kind {
	case model.StatusDownloading:
		percent, ok := event.PercentText()
		if !ok {
			percent = "calculating..."
		}
		line = "Downloading: " + percent
		if event.ETASec > 0 {
			line += " (ETA " + event.GetETAString() + ")"
		}
	case model.StatusFinished:
		line = "Download complete, converting..."
	default:
		return
	}

	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.out, line)
}
