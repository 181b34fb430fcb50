package model

// Package model defines the data passed between the form, the download
// orchestrator and the status label.
