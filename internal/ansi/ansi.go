// Package ansi prints a text-mode preview of the terminal window at one frame
package ansi

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/width"

	"github.com/ivlev/packpreview/internal/palette"
	"github.com/ivlev/packpreview/internal/scene"
)

// Columns is the inner width of the preview box
const Columns = 64

// Same colours as the rendered video; the box sits on the terminal body colour
var colors = palette.Default()

// TrueColorFg returns an ANSI escape sequence for 24-bit foreground color
func TrueColorFg(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// TrueColorBg returns an ANSI escape sequence for 24-bit background color
func TrueColorBg(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
}

// Reset returns the ANSI reset escape sequence
func Reset() string {
	return "\x1b[0m"
}

// RuneWidth is the number of terminal columns r occupies
func RuneWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	// Emoji presentation pictographs are wide in every modern terminal
	if r >= 0x1F300 && r <= 0x1FAFF {
		return 2
	}
	return 1
}

// StringWidth is the number of terminal columns s occupies
func StringWidth(s string) int {
	n := 0
	for _, r := range s {
		n += RuneWidth(r)
	}
	return n
}

// Truncate cuts s to at most cols columns
func Truncate(s string, cols int) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		w := RuneWidth(r)
		if n+w > cols {
			break
		}
		b.WriteRune(r)
		n += w
	}
	return b.String()
}

// Render writes the terminal of st as a framed box. Line colours are faded
// towards the background by the line and window opacity.
func Render(w io.Writer, st scene.State) error {
	var b strings.Builder
	edge := TrueColorFg(colors.Border)

	fmt.Fprintf(&b, "frame %d", st.Frame)
	if len(st.Audio) > 0 {
		clips := make([]string, len(st.Audio))
		for i, c := range st.Audio {
			clips[i] = c.Clip
		}
		fmt.Fprintf(&b, "  ♪ %s", strings.Join(clips, ", "))
	}
	b.WriteString("\n")

	switch {
	case st.Outro.Visible:
		card(&b, edge, st.Outro.Heading, st.Outro.URL, st.Outro.Note)
	case st.Title.Visible && !st.Terminal.Visible:
		card(&b, edge, st.Title.Kicker, st.Title.Heading, st.Title.Subtitle)
	case st.Terminal.Visible:
		terminal(&b, edge, st.Terminal)
	default:
		b.WriteString("(nothing visible)\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func terminal(b *strings.Builder, edge string, t scene.Terminal) {
	title := Truncate(t.TabTitle, Columns-2)
	pad := Columns - StringWidth(title) - 1
	b.WriteString(edge + "╭" + strings.Repeat("─", Columns) + "╮" + Reset() + "\n")
	b.WriteString(edge + "│" + Reset() + TrueColorBg(colors.TermBG) + strings.Repeat(" ", pad) + TrueColorFg(colors.Dim) + title + " " + Reset() + edge + "│" + Reset() + "\n")
	b.WriteString(edge + "├" + strings.Repeat("─", Columns) + "┤" + Reset() + "\n")

	for _, l := range t.Lines {
		text := l.Shown
		if l.Caret || (l.Cursor && l.CursorLit) {
			text += "█"
		}
		if l.Badge != nil && l.Badge.Opacity > 0 {
			text += "  " + l.Badge.Label
		}
		text = Truncate(text, Columns-2)

		c := fade(colors.Tone(l.Tone), l.Opacity*t.Opacity)
		fill := Columns - 2 - StringWidth(text)
		b.WriteString(edge + "│" + Reset() + TrueColorBg(colors.TermBG) + " " + TrueColorFg(c) + text + strings.Repeat(" ", fill) + " " + Reset() + edge + "│" + Reset() + "\n")
	}

	b.WriteString(edge + "╰" + strings.Repeat("─", Columns) + "╯" + Reset() + "\n")
}

func card(b *strings.Builder, edge string, lines ...string) {
	b.WriteString(edge + "╭" + strings.Repeat("─", Columns) + "╮" + Reset() + "\n")
	for _, s := range lines {
		s = Truncate(s, Columns)
		left := (Columns - StringWidth(s)) / 2
		right := Columns - StringWidth(s) - left
		b.WriteString(edge + "│" + Reset() + strings.Repeat(" ", left) + s + strings.Repeat(" ", right) + edge + "│" + Reset() + "\n")
	}
	b.WriteString(edge + "╰" + strings.Repeat("─", Columns) + "╯" + Reset() + "\n")
}

func fade(c colorful.Color, opacity float64) colorful.Color {
	return colors.TermBG.BlendRgb(c, math.Max(0, math.Min(1, opacity)))
}
