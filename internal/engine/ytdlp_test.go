package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-mp3/internal/download"
	"github.com/ytget/yt-mp3/internal/model"
)

func strPtr(s string) *string { return &s }

func TestToProgressEvent(t *testing.T) {
	tests := []struct {
		name   string
		update ytdlp.ProgressUpdate
		want   model.ProgressEvent
	}{
		{
			name: "downloading half",
			update: ytdlp.ProgressUpdate{
				Status:          ytdlp.ProgressStatusDownloading,
				DownloadedBytes: 50,
				TotalBytes:      100,
				Filename:        "/tmp/Song A.webm",
			},
			want: model.ProgressEvent{
				Status:          model.ProgressDownloading,
				DownloadedBytes: 50,
				TotalBytes:      100,
				ETASec:          -1,
				Filename:        "/tmp/Song A.webm",
			},
		},
		{
			name:   "finished",
			update: ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusFinished},
			want:   model.ProgressEvent{Status: model.ProgressFinished, ETASec: -1},
		},
		{
			name:   "unknown total",
			update: ytdlp.ProgressUpdate{Status: ytdlp.ProgressStatusDownloading, DownloadedBytes: 10},
			want:   model.ProgressEvent{Status: model.ProgressDownloading, DownloadedBytes: 10, ETASec: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toProgressEvent(tt.update)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToProgressEventPercent(t *testing.T) {
	event := toProgressEvent(ytdlp.ProgressUpdate{
		Status:          ytdlp.ProgressStatusDownloading,
		DownloadedBytes: 50,
		TotalBytes:      100,
	})

	text, ok := model.FormatPercent(event.DownloadedBytes, event.Total())
	require.True(t, ok)
	assert.Equal(t, "50.00%", text)
}

func TestUpdateTitle(t *testing.T) {
	assert.Equal(t, "", updateTitle(ytdlp.ProgressUpdate{}))
	assert.Equal(t, "", updateTitle(ytdlp.ProgressUpdate{Info: &ytdlp.ExtractedInfo{}}))
	assert.Equal(t, "Song A", updateTitle(ytdlp.ProgressUpdate{
		Info: &ytdlp.ExtractedInfo{Title: strPtr("Song A")},
	}))
}

func TestNewYTDLPDefaults(t *testing.T) {
	e := NewYTDLP(0, nil)
	assert.Equal(t, DefaultProgressInterval, e.progressInterval)
	assert.NotNil(t, e.logger)

	e = NewYTDLP(time.Second, nil)
	assert.Equal(t, time.Second, e.progressInterval)
}

func TestYTDLPInstallRunsOnce(t *testing.T) {
	calls := 0
	installErr := errors.New("no network")

	e := NewYTDLP(0, nil)
	e.install = func(context.Context) error {
		calls++
		return installErr
	}

	for i := 0; i < 3; i++ {
		_, err := e.Extract(context.Background(), download.EngineRequest{Link: "https://example.com/v"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, installErr)
	}
	assert.Equal(t, 1, calls)
}
