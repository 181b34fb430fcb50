package platform

// Package platform contains OS integration such as the default downloads
// folder and locating the ffmpeg transcoder.
