package runtime

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stevengum97/botbuilder-tools/pkg/payload"
	"github.com/stevengum97/botbuilder-tools/pkg/transcript"
)

const sampleScript = `user=Joe
bot=TravelBot

Joe: I need a flight to Paris
TravelBot: [Typing]
When would you like to leave?
`

func runChatdown(t *testing.T, rt *Runtime, args ...string) (string, error) {
	t.Helper()
	cmd := rt.NewChatdownCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeActivities(t *testing.T, data string) []transcript.Activity {
	t.Helper()
	var activities []transcript.Activity
	if err := json.Unmarshal([]byte(data), &activities); err != nil {
		t.Fatalf("output %q is not an activity array: %v", data, err)
	}
	return activities
}

func TestChatdownFromFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "dialog.chat")
	if err := os.WriteFile(inPath, []byte(sampleScript), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runChatdown(t, &Runtime{Quiet: true}, "--in", inPath)
	if err != nil {
		t.Fatalf("chatdown error = %v", err)
	}

	activities := decodeActivities(t, out)
	if len(activities) != 3 {
		t.Fatalf("len(activities) = %d, want 3", len(activities))
	}
	if activities[0].From.Name != "Joe" || activities[0].Text != "I need a flight to Paris" {
		t.Errorf("first activity = %+v", activities[0])
	}
	if activities[1].Type != transcript.ActivityTyping {
		t.Errorf("second activity type = %q, want typing", activities[1].Type)
	}
	if activities[2].From.Name != "TravelBot" {
		t.Errorf("third activity from = %+v", activities[2].From)
	}
}

func TestChatdownFromStdin(t *testing.T) {
	rt := &Runtime{
		Quiet: true,
		Stdin: strings.NewReader("user: hello\nbot: hi\n"),
	}

	out, err := runChatdown(t, rt)
	if err != nil {
		t.Fatalf("chatdown error = %v", err)
	}
	activities := decodeActivities(t, out)
	if len(activities) != 2 {
		t.Fatalf("len(activities) = %d, want 2", len(activities))
	}
}

func TestChatdownStdinTimeout(t *testing.T) {
	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })
	rt := &Runtime{
		Quiet:         true,
		Stdin:         blockingReader{wait: blocked},
		StreamTimeout: 30 * time.Millisecond,
	}

	_, err := runChatdown(t, rt)
	var timeoutErr *payload.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("chatdown error = %v, want *payload.TimeoutError", err)
	}
}

type blockingReader struct {
	wait chan struct{}
}

func (r blockingReader) Read(p []byte) (int, error) {
	<-r.wait
	return 0, os.ErrClosed
}

func TestChatdownParseErrorNamesLine(t *testing.T) {
	rt := &Runtime{
		Quiet: true,
		Stdin: strings.NewReader("stray text with no speaker\n"),
	}

	_, err := runChatdown(t, rt)
	if err == nil {
		t.Fatal("chatdown accepted a script with no speaker turn")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestChatdownWritesFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "transcript.json")
	rt := &Runtime{
		Quiet: true,
		Stdin: strings.NewReader(sampleScript),
	}

	console, err := runChatdown(t, rt, "--out", outPath)
	if err != nil {
		t.Fatalf("chatdown error = %v", err)
	}
	if console != "" {
		t.Errorf("console output = %q, want none for file destinations", console)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("transcript file missing: %v", err)
	}
	activities := decodeActivities(t, string(data))
	if len(activities) != 3 {
		t.Errorf("len(activities) = %d, want 3", len(activities))
	}
}

func TestChatdownMissingInputFile(t *testing.T) {
	_, err := runChatdown(t, &Runtime{Quiet: true}, "--in", filepath.Join(t.TempDir(), "absent.chat"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("chatdown error = %v, want the original read error", err)
	}
}
