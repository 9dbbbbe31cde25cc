package timeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultTimeline(t *testing.T) {
	tl := Default()

	if err := Validate(tl); err != nil {
		t.Fatalf("Default timeline is invalid: %v", err)
	}

	if tl.FPS != 30 {
		t.Errorf("Expected 30 fps, got %d", tl.FPS)
	}
	if tl.DurationFrames != 840 {
		t.Errorf("Expected 840 frames, got %d", tl.DurationFrames)
	}
	if len(tl.Events) != 18 {
		t.Errorf("Expected 18 events, got %d", len(tl.Events))
	}
	if got := len(tl.Lines()); got != 15 {
		t.Errorf("Expected 15 terminal lines, got %d", got)
	}
	if got := len(tl.Sounds()); got != 6 {
		t.Errorf("Expected 6 sound events, got %d", got)
	}

	start, ok := tl.First(TypeTerminalStart)
	if !ok || start.Frame != 75 {
		t.Errorf("Expected terminal-start at frame 75, got %+v (found=%v)", start, ok)
	}
	outro, ok := tl.First(TypeOutro)
	if !ok || outro.Frame != 740 {
		t.Errorf("Expected outro at frame 740, got %+v (found=%v)", outro, ok)
	}

	first := tl.Lines()[0]
	if first.Text != "$ claude" || first.Style != StyleCmd {
		t.Errorf("Unexpected first line: %+v", first)
	}
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Events[2].Text = "mutated"
	a.TabTitles = nil

	b := Default()
	if b.Events[2].Text != "$ claude" {
		t.Errorf("Default shares event storage between callers: %q", b.Events[2].Text)
	}
	if len(b.TabTitles) != 5 {
		t.Errorf("Expected 5 tab title rules, got %d", len(b.TabTitles))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tl *Timeline)
		wantErr error
		errText string
	}{
		{"default", func(tl *Timeline) {}, nil, ""},
		{"empty", func(tl *Timeline) { tl.Events = nil }, ErrNoTimeline, ""},
		{"unsorted", func(tl *Timeline) { tl.Events[3].Frame = 10 }, ErrUnsortedFrames, ""},
		{"line without text", func(tl *Timeline) { tl.Events[2].Text = "" }, nil, "line without text"},
		{"unknown style", func(tl *Timeline) { tl.Events[2].Style = "bold" }, nil, "unknown style"},
		{"unknown type", func(tl *Timeline) { tl.Events[2].Type = "banner" }, nil, "unknown type"},
		{"zero fps", func(tl *Timeline) { tl.FPS = 0 }, nil, "fps"},
		{"empty tab range", func(tl *Timeline) { tl.TabTitles[0].Until = tl.TabTitles[0].From }, nil, "empty range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := Default()
			tt.mutate(tl)
			err := Validate(tl)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("Expected error containing %q, got %v", tt.errText, err)
				}
			default:
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}

func TestTabRuleContains(t *testing.T) {
	closed := TabRule{From: 170, Until: 530, State: StateWorking}
	open := TabRule{From: 660, State: StateError}

	if closed.Contains(169) || !closed.Contains(170) || !closed.Contains(529) || closed.Contains(530) {
		t.Error("Closed rule must cover [170,530)")
	}
	if open.Contains(659) || !open.Contains(660) || !open.Contains(100000) {
		t.Error("Open rule must cover [660,∞)")
	}
}

func TestTitleStateLabels(t *testing.T) {
	if StateNeedsApproval.Label() != "needs approval" {
		t.Errorf("Unexpected label %q", StateNeedsApproval.Label())
	}
	if StateWorking.Attention() || StateReady.Attention() {
		t.Error("ready/working must not ask for attention")
	}
	if !StateDone.Attention() || !StateError.Attention() || !StateNeedsApproval.Attention() {
		t.Error("done/error/needs-approval must ask for attention")
	}
}

func TestTimelineWriteRead(t *testing.T) {
	tl := Default()
	path := filepath.Join(t.TempDir(), "timeline.yaml")

	if err := WriteTimeline(tl, path); err != nil {
		t.Fatalf("WriteTimeline failed: %v", err)
	}

	read, err := ReadTimeline(path)
	if err != nil {
		t.Fatalf("ReadTimeline failed: %v", err)
	}

	if len(read.Events) != len(tl.Events) {
		t.Fatalf("Event count mismatch: expected %d, got %d", len(tl.Events), len(read.Events))
	}
	for i := range tl.Events {
		if read.Events[i] != tl.Events[i] {
			t.Errorf("Event %d mismatch: expected %+v, got %+v", i, tl.Events[i], read.Events[i])
		}
	}
	if read.Outro.URL != tl.Outro.URL {
		t.Errorf("Outro URL mismatch: %q vs %q", read.Outro.URL, tl.Outro.URL)
	}
}

func TestParseNormalizesText(t *testing.T) {
	// "e" + combining acute accent
	data := []byte("fps: 30\nduration_frames: 10\nevents:\n  - {frame: 0, type: line, text: \"caf\\u0065\\u0301\", style: cmd}\n")

	tl, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := tl.Events[0].Text; got != "café" {
		t.Errorf("Expected NFC text %q, got %q", "café", got)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "timeline_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "timeline_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "timeline_2026-02-11_15-30-00.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("fps: 30"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without timelines")
	}
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("timelines")

	if !strings.HasPrefix(path, filepath.Join("timelines", "timeline_")) || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Unexpected path: %s", path)
	}
	t.Logf("Generated path: %s", path)
}
