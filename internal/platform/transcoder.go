package platform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Transcoder executable names
const (
	TranscoderBaseName = "ffmpeg"
	WindowsExeSuffix   = ".exe"

	// RuntimeDirPrefix names the directory a bundled transcoder is extracted to
	RuntimeDirPrefix = "yt-mp3-"
)

// TranscoderName returns the ffmpeg executable name for the current OS
func TranscoderName() string {
	if runtime.GOOS == OSWindows {
		return TranscoderBaseName + WindowsExeSuffix
	}
	return TranscoderBaseName
}

// TranscoderLocator finds the ffmpeg binary handed to the extraction engine.
//
// A packaged build carries ffmpeg inside the executable; it is extracted to a
// per-version runtime directory and that absolute path is returned. A
// development build returns the bare executable name, which the engine
// resolves against the working directory. Neither path is checked for
// existence here: a missing binary surfaces as an engine error.
type TranscoderLocator struct {
	bundle     []byte
	runtimeDir string
	name       string
}

// LocatorOption configures a TranscoderLocator
type LocatorOption func(*TranscoderLocator)

// WithRuntimeDir overrides where a bundled transcoder is extracted
func WithRuntimeDir(dir string) LocatorOption {
	return func(l *TranscoderLocator) {
		l.runtimeDir = dir
	}
}

// WithTranscoderName overrides the executable name
func WithTranscoderName(name string) LocatorOption {
	return func(l *TranscoderLocator) {
		l.name = name
	}
}

// NewTranscoderLocator creates a locator. bundle is the embedded ffmpeg
// binary, or nil for development builds.
func NewTranscoderLocator(bundle []byte, version string, opts ...LocatorOption) *TranscoderLocator {
	l := &TranscoderLocator{
		bundle:     bundle,
		runtimeDir: filepath.Join(os.TempDir(), RuntimeDirPrefix+version),
		name:       TranscoderName(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Packaged reports whether this build carries its own transcoder
func (l *TranscoderLocator) Packaged() bool {
	return len(l.bundle) > 0
}

// Resolve returns the transcoder path for this deployment
func (l *TranscoderLocator) Resolve() (string, error) {
	if !l.Packaged() {
		return l.name, nil
	}
	return l.extract()
}

// extract writes the bundled binary into the runtime directory unless an
// identical copy is already there
func (l *TranscoderLocator) extract() (string, error) {
	if err := CreateDirectoryIfNotExists(l.runtimeDir); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(l.runtimeDir, l.name))
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, l.bundle) {
		return target, nil
	}

	// Write next to the target and rename so a concurrent reader never sees
	// a half-written binary.
	tmp, err := os.CreateTemp(l.runtimeDir, l.name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to extract transcoder: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(l.bundle); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to extract transcoder: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to extract transcoder: %w", err)
	}
	if err := os.Chmod(tmp.Name(), DefaultExecPermissions); err != nil {
		return "", fmt.Errorf("failed to mark transcoder executable: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to extract transcoder: %w", err)
	}

	return target, nil
}
