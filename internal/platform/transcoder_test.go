package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscoderName(t *testing.T) {
	name := TranscoderName()
	if runtime.GOOS == OSWindows {
		assert.Equal(t, "ffmpeg.exe", name)
	} else {
		assert.Equal(t, "ffmpeg", name)
	}
}

func TestTranscoderLocator_Development(t *testing.T) {
	l := NewTranscoderLocator(nil, "dev")

	assert.False(t, l.Packaged())

	path, err := l.Resolve()
	require.NoError(t, err)
	assert.Equal(t, TranscoderName(), path, "development builds use the bare name relative to the working directory")
	assert.False(t, filepath.IsAbs(path))
}

func TestTranscoderLocator_DevelopmentDoesNotCheckExistence(t *testing.T) {
	l := NewTranscoderLocator(nil, "dev", WithTranscoderName("definitely-not-installed-ffmpeg"))

	path, err := l.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "definitely-not-installed-ffmpeg", path)
}

func TestTranscoderLocator_PackagedExtractsBundle(t *testing.T) {
	runtimeDir := filepath.Join(t.TempDir(), "runtime")
	bundle := []byte("#!/bin/sh\necho ffmpeg\n")
	l := NewTranscoderLocator(bundle, "1.0.0", WithRuntimeDir(runtimeDir), WithTranscoderName("ffmpeg"))

	assert.True(t, l.Packaged())

	path, err := l.Resolve()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "ffmpeg", filepath.Base(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bundle, content)

	if runtime.GOOS != OSWindows {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0100, "extracted transcoder must be executable")
	}

	// A second resolve reuses the extracted copy.
	again, err := l.Resolve()
	require.NoError(t, err)
	assert.Equal(t, path, again)

	entries, err := os.ReadDir(runtimeDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestTranscoderLocator_PackagedReplacesStaleCopy(t *testing.T) {
	runtimeDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(runtimeDir, "ffmpeg"), []byte("old"), 0o755))

	l := NewTranscoderLocator([]byte("new build"), "1.0.1", WithRuntimeDir(runtimeDir), WithTranscoderName("ffmpeg"))
	path, err := l.Resolve()
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new build", string(content))
}

func TestTranscoderLocator_DefaultRuntimeDir(t *testing.T) {
	l := NewTranscoderLocator([]byte("x"), "2.3.4")
	assert.Equal(t, filepath.Join(os.TempDir(), RuntimeDirPrefix+"2.3.4"), l.runtimeDir)
}
