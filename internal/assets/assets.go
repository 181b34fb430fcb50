// Package assets exposes resources compiled into packaged builds.
package assets

// ffmpeg holds the bundled transcoder; it stays nil unless the binary is
// built with the "bundled" tag.
var ffmpeg []byte

// FFmpeg returns the bundled transcoder binary, or nil in development builds
func FFmpeg() []byte {
	return ffmpeg
}
