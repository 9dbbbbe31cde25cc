package audio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/packpreview/internal/timeline"
)

func TestScheduleDefault(t *testing.T) {
	tl := timeline.Default()
	cues := Schedule(tl)

	expected := []struct {
		clip  string
		start int
	}{
		{"ToolsReady.mp3", 120},
		{"Engineering.mp3", 240},
		{"YesCommander.mp3", 330},
		{"CheckingDesigns.mp3", 470},
		{"PowerUp.mp3", 530},
		{"GetMeOuttaHere.mp3", 680},
	}

	if len(cues) != len(expected) {
		t.Fatalf("Expected %d cues, got %d", len(expected), len(cues))
	}
	for i, want := range expected {
		c := cues[i]
		if c.Clip != want.clip || c.StartFrame != want.start {
			t.Errorf("Cue %d: expected %s@%d, got %s@%d", i, want.clip, want.start, c.Clip, c.StartFrame)
		}
		if c.DurationFrames != 50 || c.Volume != 0.9 {
			t.Errorf("Cue %d: expected 50 frames at 0.9, got %d at %.2f", i, c.DurationFrames, c.Volume)
		}
	}
}

func TestScheduleOnlySoundLines(t *testing.T) {
	tl := &timeline.Timeline{
		FPS: 30,
		Events: []timeline.Event{
			{Frame: 0, Type: timeline.TypeTitle, Sound: "intro.mp3"},
			{Frame: 10, Type: timeline.TypeLine, Text: "x", Sound: "line.mp3"},
			{Frame: 20, Type: timeline.TypeSoundLine, Text: "silent"},
			{Frame: 30, Type: timeline.TypeSoundLine, Text: "a", Sound: "a.mp3"},
			{Frame: 40, Type: timeline.TypeSoundLine, Text: "b", Sound: "b.mp3"},
			{Frame: 50, Type: timeline.TypeOutro, Sound: "outro.mp3"},
		},
	}

	cues := Schedule(tl)
	if len(cues) != 2 || cues[0].Clip != "a.mp3" || cues[1].Clip != "b.mp3" {
		t.Fatalf("Expected cues for a.mp3 and b.mp3 only, got %+v", cues)
	}

	// Overlapping windows play together
	active := Active(cues, 60)
	if len(active) != 2 {
		t.Errorf("Expected both cues active at frame 60, got %d", len(active))
	}
	if got := Active(cues, 80); len(got) != 1 || got[0].Clip != "b.mp3" {
		t.Errorf("Expected only b.mp3 at frame 80, got %+v", got)
	}
	if got := Active(cues, 90); len(got) != 0 {
		t.Errorf("Expected no cues at frame 90, got %+v", got)
	}
}

func TestCueWindow(t *testing.T) {
	c := Cue{Clip: "x.mp3", StartFrame: 120, DurationFrames: 50}

	if c.Contains(119) || !c.Contains(120) || !c.Contains(169) || c.Contains(170) {
		t.Error("Cue must cover [120,170)")
	}
	if c.EndFrame() != 170 {
		t.Errorf("Expected end frame 170, got %d", c.EndFrame())
	}
}

func TestResolver(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, SoundsDir), 0755)
	os.WriteFile(filepath.Join(root, SoundsDir, "PowerUp.mp3"), []byte("id3"), 0644)

	r := NewResolver(root)
	if got := r.Path("PowerUp.mp3"); got != filepath.Join(root, "sounds", "PowerUp.mp3") {
		t.Errorf("Unexpected path %s", got)
	}

	cues := Schedule(timeline.Default())
	missing := r.Missing(cues)
	available := r.Available(cues)
	if len(missing) != 5 || len(available) != 1 || available[0].Clip != "PowerUp.mp3" {
		t.Errorf("Expected 5 missing and PowerUp.mp3 available, got %d missing, %+v", len(missing), available)
	}
}

func TestMixGraph(t *testing.T) {
	cues := Schedule(timeline.Default())

	graph, out := MixGraph(cues, 1, 30)
	if out != "[aout]" {
		t.Errorf("Expected [aout] output, got %s", out)
	}

	for _, part := range []string{
		"[1:a]atrim=0:1.666667",
		"adelay=4000:all=1[c0]",
		"[6:a]",
		"adelay=22666:all=1[c5]",
		"volume=0.900",
		"amix=inputs=6:duration=longest:dropout_transition=0:normalize=0[aout]",
	} {
		if !strings.Contains(graph, part) {
			t.Errorf("Graph should contain %q", part)
		}
	}
	if strings.HasSuffix(graph, ";") {
		t.Error("Graph must not end with ';'")
	}

	t.Logf("Generated graph: %s", graph)
}

func TestMixGraphSingleAndEmpty(t *testing.T) {
	graph, out := MixGraph([]Cue{{Clip: "a.mp3", StartFrame: 30, DurationFrames: 50, Volume: 0.9}}, 1, 30)
	if strings.Contains(graph, "amix") {
		t.Error("A single cue does not need amix")
	}
	if !strings.HasSuffix(graph, "[aout]") || out != "[aout]" {
		t.Errorf("Single cue must be labelled [aout]: %s", graph)
	}

	graph, out = MixGraph(nil, 1, 30)
	if graph != "" || out != "" {
		t.Errorf("Expected empty graph, got %q %q", graph, out)
	}
}
