package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconFolder   = "📁"
	IconMusic    = "🎵"
	IconLanguage = "🌐"
)

// Layout sizing
const (
	WindowWidth  float32 = 560
	WindowHeight float32 = 220
)
