package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ProgressStatus is the transfer state reported by the extraction engine
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// FormState holds the three user-entered strings for one form interaction
type FormState struct {
	Dir   string // destination directory
	Link  string // source video link
	Title string // optional output title, without extension
}

// Normalized returns a copy with surrounding whitespace removed from every field
func (f FormState) Normalized() FormState {
	return FormState{
		Dir:   strings.TrimSpace(f.Dir),
		Link:  strings.TrimSpace(f.Link),
		Title: strings.TrimSpace(f.Title),
	}
}

// HasCustomTitle reports whether the user asked for a different file name
func (f FormState) HasCustomTitle() bool {
	return strings.TrimSpace(f.Title) != ""
}

// ProgressEvent is a single progress hook call from the extraction engine
type ProgressEvent struct {
	Status             ProgressStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	ETASec             int // -1 if unknown
	Filename           string
}

// Total returns the known total size, falling back to the engine's estimate
func (p ProgressEvent) Total() int64 {
	if p.TotalBytes > 0 {
		return p.TotalBytes
	}
	return p.TotalBytesEstimate
}

// StatusEvent is what the status label renders
type StatusEvent struct {
	Kind       StatusKind
	Downloaded int64
	Total      int64
	ETASec     int
	Result     *DownloadResult // set on Succeeded
	Err        error           // set on Failed
}

// PercentText returns the percentage with two decimals, e.g. "50.00%"
func (e StatusEvent) PercentText() (string, bool) {
	return FormatPercent(e.Downloaded, e.Total)
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (e StatusEvent) GetETAString() string {
	if e.ETASec <= 0 {
		return "—"
	}

	hours := e.ETASec / 3600
	minutes := (e.ETASec % 3600) / 60
	seconds := e.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatPercent renders downloaded/total as a percentage with two decimals.
// It returns false when total is unknown so callers can show an
// indeterminate state instead.
func FormatPercent(downloaded, total int64) (string, bool) {
	if total <= 0 {
		return "", false
	}
	percent := float64(downloaded) / float64(total) * 100
	return fmt.Sprintf("%.2f%%", percent), true
}

// DownloadResult describes a finished invocation
type DownloadResult struct {
	JobID        string
	Dir          string
	Title        string // title reported by the engine
	OriginalPath string // file produced by the engine
	OutputPath   string // final file, after an optional rename
	Renamed      bool
	StartedAt    time.Time
	FinishedAt   time.Time
}

// GetDisplayTitle returns the final file name without extension, or the engine title
func (r *DownloadResult) GetDisplayTitle() string {
	if r.OutputPath != "" {
		name := filepath.Base(r.OutputPath)
		if idx := strings.LastIndex(name, "."); idx > 0 {
			name = name[:idx]
		}
		return name
	}
	return r.Title
}
