// Package progress wraps the terminal spinner the tools show while a
// remote operation is in flight.
package progress

import (
	"sync"

	"github.com/pterm/pterm"
)

// Tracker drives one spinner at a time. A disabled Tracker ignores every
// call, which keeps scripted runs and tests free of terminal noise.
type Tracker struct {
	enabled bool

	mu      sync.Mutex
	spinner *pterm.SpinnerPrinter
}

// NewTracker creates a Tracker. Pass false to disable all output.
func NewTracker(enabled bool) *Tracker {
	return &Tracker{enabled: enabled}
}

// Start begins a spinner with the given message, replacing any running one.
func (t *Tracker) Start(message string) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spinner != nil {
		t.spinner.Stop()
	}
	spinner, err := pterm.DefaultSpinner.Start(message)
	if err != nil {
		t.spinner = nil
		return
	}
	t.spinner = spinner
}

// Success resolves the running spinner with a success mark.
func (t *Tracker) Success(message string) {
	t.finish(message, true)
}

// Fail resolves the running spinner with a failure mark.
func (t *Tracker) Fail(message string) {
	t.finish(message, false)
}

func (t *Tracker) finish(message string, success bool) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.spinner == nil {
		return
	}
	if success {
		t.spinner.Success(message)
	} else {
		t.spinner.Fail(message)
	}
	t.spinner = nil
}
