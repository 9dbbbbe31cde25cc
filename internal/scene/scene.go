package scene

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivlev/packpreview/internal/anim"
	"github.com/ivlev/packpreview/internal/audio"
	"github.com/ivlev/packpreview/internal/timeline"
)

const (
	// TitleFadeFrames is how long the title card fades out before the terminal starts
	TitleFadeFrames = 15
	// TerminalFadeFrames is the length of the terminal fade in and fade out
	TerminalFadeFrames = 10
	// LineRise is how far a new line slides up while appearing, px
	LineRise = 8
	// TitleRise is how far the title heading slides up while appearing, px
	TitleRise = 20

	titleDelay    = 5
	subtitleDelay = 20
)

var (
	lineSpring  = anim.SpringConfig{Damping: 20}
	cardSpring  = anim.SpringConfig{Damping: 12, OvershootClamping: true}
	badgeSpring = anim.SpringConfig{Damping: 12, OvershootClamping: true}
)

// Compute returns the state of the scene at frame.
// It reads tl only and is defined for every integer frame.
func Compute(tl *timeline.Timeline, frame int) State {
	return State{
		Frame:    frame,
		Title:    titleCard(tl, frame),
		Terminal: terminal(tl, frame),
		Outro:    outroCard(tl, frame),
		Audio:    audio.Active(audio.Schedule(tl), frame),
	}
}

// TabTitle evaluates the tab title rules at frame. Rules are checked in
// order and the last matching one wins.
func TabTitle(tl *timeline.Timeline, frame int) (string, timeline.TitleState) {
	state := timeline.StateReady
	for _, rule := range tl.TabTitles {
		if rule.Contains(frame) {
			state = rule.State
		}
	}

	title := fmt.Sprintf("%s: %s", tl.Project, state.Label())
	if state.Attention() {
		title = "● " + title
	}
	return title, state
}

// TerminalOpacity is the fade of the terminal window at frame
func TerminalOpacity(tl *timeline.Timeline, frame int) float64 {
	start, ok := tl.First(timeline.TypeTerminalStart)
	if !ok || frame < start.Frame {
		return 0
	}

	if outro, ok := tl.First(timeline.TypeOutro); ok && frame >= outro.Frame-TerminalFadeFrames {
		return anim.InterpolateFrame(frame, outro.Frame-TerminalFadeFrames, outro.Frame, [2]float64{1, 0})
	}
	return anim.InterpolateFrame(frame, start.Frame, start.Frame+TerminalFadeFrames, [2]float64{0, 1})
}

func titleCard(tl *timeline.Timeline, frame int) TitleCard {
	title, ok := tl.First(timeline.TypeTitle)
	if !ok || frame < title.Frame {
		return TitleCard{}
	}

	// Without a terminal the card simply stays
	end := -1
	if start, ok := tl.First(timeline.TypeTerminalStart); ok {
		end = start.Frame
		if frame > end {
			return TitleCard{}
		}
	}

	local := anim.Elapsed(frame, title.Frame)
	enter := anim.Spring(local, tl.FPS, withDelay(cardSpring, titleDelay))

	opacity := 1.0
	if end >= 0 {
		opacity = anim.InterpolateFrame(frame, end-TitleFadeFrames, end, [2]float64{1, 0})
	}

	return TitleCard{
		Visible:    true,
		Opacity:    opacity,
		Enter:      enter,
		OffsetY:    anim.Interpolate(enter, [2]float64{0, 1}, [2]float64{TitleRise, 0}),
		SubOpacity: anim.Spring(local, tl.FPS, withDelay(cardSpring, subtitleDelay)),
		Kicker:     tl.Title.Kicker,
		Heading:    tl.Title.Heading,
		Subtitle:   tl.Title.Subtitle,
		Footer:     tl.Title.Footer,
	}
}

func terminal(tl *timeline.Timeline, frame int) Terminal {
	start, ok := tl.First(timeline.TypeTerminalStart)
	if !ok || frame < start.Frame {
		return Terminal{}
	}

	tabTitle, tabState := TabTitle(tl, frame)
	term := Terminal{
		Visible:  true,
		Opacity:  TerminalOpacity(tl, frame),
		TabTitle: tabTitle,
		TabState: tabState,
	}

	for _, e := range tl.Lines() {
		if frame < e.Frame {
			continue
		}
		term.Lines = append(term.Lines, line(tl, e, frame))
	}
	return term
}

func line(tl *timeline.Timeline, e timeline.Event, frame int) Line {
	local := anim.Elapsed(frame, e.Frame)
	opacity := anim.Spring(local, tl.FPS, lineSpring)

	l := Line{
		Frame:   e.Frame,
		Type:    e.Type,
		Style:   e.Style,
		Text:    e.Text,
		Shown:   e.Text,
		Opacity: opacity,
		OffsetY: anim.Interpolate(opacity, [2]float64{0, 1}, [2]float64{LineRise, 0}),
	}

	if e.Type == timeline.TypeSoundLine {
		l.Tone = ToneGold
		if e.Label != "" {
			l.Badge = &Badge{
				Label:   e.Label,
				Opacity: anim.Spring(local, tl.FPS, badgeSpring),
				Scale:   anim.Pulse(frame),
			}
		}
		return l
	}

	switch e.Style {
	case timeline.StyleCmd:
		l.Tone = ToneBright
		if strings.HasPrefix(e.Text, "$") || strings.HasPrefix(e.Text, ">") {
			l.Tone = ToneGreen
		}
		total := utf8.RuneCountInString(e.Text)
		n := anim.TypedChars(local, total, anim.TypingSpeed)
		l.Shown = prefixRunes(e.Text, n)
		l.Caret = n < total
	case timeline.StyleError:
		l.Tone = ToneRed
	case timeline.StyleCursor:
		l.Tone = ToneGreen
		l.Cursor = true
		l.CursorLit = anim.Blink(frame)
	default:
		l.Tone = ToneDim
	}
	return l
}

func outroCard(tl *timeline.Timeline, frame int) OutroCard {
	outro, ok := tl.First(timeline.TypeOutro)
	if !ok || frame < outro.Frame {
		return OutroCard{}
	}

	enter := anim.Spring(anim.Elapsed(frame, outro.Frame), tl.FPS, cardSpring)
	return OutroCard{
		Visible: true,
		Enter:   enter,
		Scale:   anim.Interpolate(enter, [2]float64{0, 1}, [2]float64{0.9, 1}),
		Heading: tl.Outro.Heading,
		URL:     tl.Outro.URL,
		Note:    tl.Outro.Note,
	}
}

func withDelay(cfg anim.SpringConfig, delay int) anim.SpringConfig {
	cfg.Delay = delay
	return cfg
}

// prefixRunes returns the first n runes of s
func prefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
