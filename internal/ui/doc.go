// Package ui contains the Fyne-based desktop form for the application.
// It binds the three input fields, hands the form to the download service
// and renders status events. All UI strings are localized via Localization.
package ui
