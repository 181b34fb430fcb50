// Package engine holds the extraction engines behind download.Engine.
//
// YTDLP drives the yt-dlp executable through github.com/lrstanley/go-ytdlp and
// lets yt-dlp call ffmpeg for the audio post-processing step. Native fetches
// the stream in-process with github.com/ytget/ytdlp/v2 and runs ffmpeg itself.
package engine
