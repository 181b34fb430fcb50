package download

// Package download orchestrates one link-to-mp3 invocation. The extraction
// engine and the transcoder are black boxes behind Engine; the service owns
// validation, the optional rename and the order of status events.
