package ansi

import (
	"bytes"
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/ivlev/packpreview/internal/palette"
	"github.com/ivlev/packpreview/internal/scene"
	"github.com/ivlev/packpreview/internal/timeline"
)

var escapes = regexp.MustCompile("\x1b\\[[0-9;]*m")

func strip(s string) string {
	return escapes.ReplaceAllString(s, "")
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"$ claude", 8},
		{"🔊 \"Power up\"", 13},
		{"日本", 4},
		{"● my-project: done", 18},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.expected {
			t.Errorf("StringWidth(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}
	// A wide rune that does not fit is dropped whole
	if got := Truncate("a🔊b", 2); got != "a" {
		t.Errorf("Expected a, got %q", got)
	}
}

func TestTrueColor(t *testing.T) {
	c := palette.MustHex("#ff8000")
	if got := TrueColorFg(c); got != "\x1b[38;2;255;128;0m" {
		t.Errorf("Unexpected fg escape %q", got)
	}
	if got := TrueColorBg(c); got != "\x1b[48;2;255;128;0m" {
		t.Errorf("Unexpected bg escape %q", got)
	}
}

func TestRenderBoxAligned(t *testing.T) {
	tl := timeline.Default()

	for _, f := range []int{-5, 30, 130, 350, 700, 800} {
		var buf bytes.Buffer
		if err := Render(&buf, scene.Compute(tl, f)); err != nil {
			t.Fatalf("Frame %d: %v", f, err)
		}

		lines := strings.Split(strings.TrimRight(strip(buf.String()), "\n"), "\n")
		for _, l := range lines[1:] {
			if !strings.HasPrefix(l, "│") && !strings.HasPrefix(l, "╭") && !strings.HasPrefix(l, "├") && !strings.HasPrefix(l, "╰") {
				continue
			}
			if w := StringWidth(l); w != Columns+2 {
				t.Errorf("Frame %d: row %q has width %d, expected %d", f, l, w, Columns+2)
			}
		}
	}
}

func TestRenderTerminalContent(t *testing.T) {
	tl := timeline.Default()

	var buf bytes.Buffer
	if err := Render(&buf, scene.Compute(tl, 700)); err != nil {
		t.Fatal(err)
	}
	out := strip(buf.String())
	t.Logf("Preview:\n%s", out)

	for _, want := range []string{"● my-project: error", "$ claude", "Error: Permission denied", "GetMeOuttaHere.mp3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in preview", want)
		}
	}
}

func TestRenderNothingVisible(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, scene.Compute(timeline.Default(), -1)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "nothing visible") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestRenderUsesVideoColours(t *testing.T) {
	tl := timeline.Default()
	st := scene.Compute(tl, 700)
	p := palette.Default()

	var buf bytes.Buffer
	if err := Render(&buf, st); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, TrueColorFg(p.Border)) || !strings.Contains(out, TrueColorBg(p.TermBG)) {
		t.Error("Box must use the video border and body colours")
	}
	checked := 0
	for _, l := range st.Terminal.Lines {
		if l.Opacity*st.Terminal.Opacity <= 0 {
			continue
		}
		checked++
		c := p.TermBG.BlendRgb(p.Tone(l.Tone), math.Min(1, l.Opacity*st.Terminal.Opacity))
		if want := TrueColorFg(c); !strings.Contains(out, want) {
			t.Errorf("Line %q: expected %s colour %q", l.Shown, l.Tone, want)
		}
	}
	if checked == 0 {
		t.Fatal("Expected visible lines at frame 700")
	}
}
