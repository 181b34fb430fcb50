package model

import "fmt"

// StatusKind represents the state of the status label for one invocation
type StatusKind string

const (
	// StatusIdle is the initial state before the user starts a download
	StatusIdle StatusKind = "Idle"

	// StatusDownloading repeats on every progress event from the engine
	StatusDownloading StatusKind = "Downloading"

	// StatusFinished is entered once when the transfer phase ends
	StatusFinished StatusKind = "Finished"

	// StatusSucceeded means the audio file is in place
	StatusSucceeded StatusKind = "Succeeded"

	// StatusFailed means the invocation ended with an error
	StatusFailed StatusKind = "Failed"
)

// transitions lists the allowed next states for each state.
var transitions = map[StatusKind][]StatusKind{
	StatusIdle:        {StatusDownloading, StatusFinished, StatusFailed},
	StatusDownloading: {StatusDownloading, StatusFinished},
	StatusFinished:    {StatusSucceeded, StatusFailed},
	StatusSucceeded:   {StatusIdle},
	StatusFailed:      {StatusIdle},
}

// String returns the string representation of StatusKind
func (k StatusKind) String() string {
	return string(k)
}

// IsTerminal returns true if the invocation is over (succeeded or failed)
func (k StatusKind) IsTerminal() bool {
	return k == StatusSucceeded || k == StatusFailed
}

// CanTransition reports whether next may follow k
func (k StatusKind) CanTransition(next StatusKind) bool {
	for _, allowed := range transitions[k] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusMachine tracks the current status and rejects illegal transitions.
// It is not safe for concurrent use; the orchestrator owns one per invocation.
type StatusMachine struct {
	current StatusKind
}

// NewStatusMachine returns a machine in the Idle state
func NewStatusMachine() *StatusMachine {
	return &StatusMachine{current: StatusIdle}
}

// Current returns the current state
func (m *StatusMachine) Current() StatusKind {
	return m.current
}

// Transition moves to next or returns an error if the move is not allowed
func (m *StatusMachine) Transition(next StatusKind) error {
	if !m.current.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s", m.current, next)
	}
	m.current = next
	return nil
}

// Reset returns a terminal machine to Idle for a new user action
func (m *StatusMachine) Reset() {
	m.current = StatusIdle
}
