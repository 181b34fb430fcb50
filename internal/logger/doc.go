// Package logger builds the structured slog logger shared by the GUI and CLI.
package logger
