// Package wizard implements the guided setup flow that collects the values
// every remote operation needs and persists them as a settings file.
package wizard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pterm/pterm"

	"github.com/stevengum97/botbuilder-tools/pkg/config"
	"github.com/stevengum97/botbuilder-tools/pkg/settings"
)

// confirmPattern accepts the answers that persist the collected settings.
// Anything else declines.
var confirmPattern = regexp.MustCompile(`(?i)^(y|yes)$`)

// question is one step of the fixed prompt sequence.
type question struct {
	prompt string
	assign func(*settings.File, string)
}

// questions run in a fixed order; the region answer is stored as the
// endpoint base URL it derives.
var questions = []question{
	{"What is your authoring key?", func(f *settings.File, v string) { f.AuthoringKey = v }},
	{"What region are you authoring in (for example westus)?", func(f *settings.File, v string) {
		f.EndpointBase = config.EndpointForRegion(v)
	}},
	{"What app ID should operations target?", func(f *settings.File, v string) { f.AppID = v }},
	{"What version ID should operations target?", func(f *settings.File, v string) { f.VersionID = v }},
}

// Wizard drives the sequential setup flow. Prompt is injectable so the flow
// can be scripted in tests; the default reads one line of terminal input.
type Wizard struct {
	Dir    string // directory the settings file is written to
	Out    io.Writer
	Prompt func(message string) (string, error)
}

// New returns a Wizard that prompts on the terminal and writes into dir.
func New(dir string) *Wizard {
	return &Wizard{Dir: dir, Out: os.Stdout, Prompt: promptLine}
}

func promptLine(message string) (string, error) {
	result, err := pterm.DefaultInteractiveTextInput.
		WithMultiLine(false).
		Show(message)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(result), nil
}

// Run walks the question sequence, shows the collected settings for review,
// and persists them only on an explicit yes. It reports whether a file was
// written. Declining is not an error: the wizard leaves no trace and the
// caller decides what to say about it.
func (w *Wizard) Run() (bool, error) {
	pending := &settings.File{}
	for _, q := range questions {
		answer, err := w.Prompt(q.prompt)
		if err != nil {
			return false, err
		}
		q.assign(pending, answer)
	}

	rendered, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to render settings for review: %w", err)
	}
	review := pterm.DefaultBox.
		WithTitle("Settings to write").
		WithTitleTopCenter().
		Sprint(string(rendered))
	fmt.Fprintf(w.Out, "\n%s\n\n", review)

	answer, err := w.Prompt("Does this look ok? [y/N]")
	if err != nil {
		return false, err
	}
	if !confirmPattern.MatchString(strings.TrimSpace(answer)) {
		return false, nil
	}

	if err := settings.Save(w.Dir, pending); err != nil {
		return false, err
	}
	return true, nil
}
