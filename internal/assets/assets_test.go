//go:build !bundled

package assets

import "testing"

func TestFFmpeg_DevelopmentBuild(t *testing.T) {
	if FFmpeg() != nil {
		t.Error("Development builds must not carry a transcoder")
	}
}
