//go:build bundled && !windows

package assets

import _ "embed"

//go:embed bin/ffmpeg
var bundledFFmpeg []byte

func init() {
	ffmpeg = bundledFFmpeg
}
