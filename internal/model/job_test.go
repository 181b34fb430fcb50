package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		downloaded int64
		total      int64
		expected   string
		known      bool
	}{
		{50, 100, "50.00%", true},
		{0, 100, "0.00%", true},
		{1, 3, "33.33%", true},
		{2, 3, "66.67%", true},
		{100, 100, "100.00%", true},
		{50, 0, "", false},
		{0, 0, "", false},
		{10, -1, "", false},
	}

	for _, test := range tests {
		result, known := FormatPercent(test.downloaded, test.total)
		assert.Equal(t, test.expected, result, "FormatPercent(%d, %d)", test.downloaded, test.total)
		assert.Equal(t, test.known, known, "FormatPercent(%d, %d) known", test.downloaded, test.total)
	}
}

func TestProgressEvent_Total(t *testing.T) {
	assert.Equal(t, int64(100), ProgressEvent{TotalBytes: 100, TotalBytesEstimate: 90}.Total())
	assert.Equal(t, int64(90), ProgressEvent{TotalBytesEstimate: 90}.Total())
	assert.Equal(t, int64(0), ProgressEvent{}.Total())
}

func TestStatusEvent_Percent(t *testing.T) {
	e := StatusEvent{Kind: StatusDownloading, Downloaded: 50, Total: 100}
	text, known := e.PercentText()
	assert.True(t, known)
	assert.Equal(t, "50.00%", text)

	_, known = StatusEvent{Kind: StatusDownloading, Downloaded: 50}.PercentText()
	assert.False(t, known)
}

func TestStatusEvent_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, test := range tests {
		e := StatusEvent{ETASec: test.etaSec}
		if result := e.GetETAString(); result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestFormState_Normalized(t *testing.T) {
	f := FormState{Dir: "  /music \n", Link: "\thttps://youtu.be/x ", Title: "   "}
	n := f.Normalized()

	assert.Equal(t, "/music", n.Dir)
	assert.Equal(t, "https://youtu.be/x", n.Link)
	assert.Equal(t, "", n.Title)
	assert.False(t, f.HasCustomTitle())
	assert.True(t, FormState{Title: "My Song"}.HasCustomTitle())
}

func TestDownloadResult_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		result   DownloadResult
		expected string
	}{
		{DownloadResult{Title: "Song A", OutputPath: "/music/My Song.mp3"}, "My Song"},
		{DownloadResult{Title: "Song A"}, "Song A"},
		{DownloadResult{OutputPath: "/music/v1.2 mix.mp3"}, "v1.2 mix"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.result.GetDisplayTitle())
	}
}

func TestStatusEvent_CarriesError(t *testing.T) {
	cause := errors.New("boom")
	e := StatusEvent{Kind: StatusFailed, Err: cause}
	assert.ErrorIs(t, e.Err, cause)
	assert.True(t, e.Kind.IsTerminal())
}
