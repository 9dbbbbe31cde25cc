package timeline

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrNoTimeline     = errors.New("timeline has no events")
	ErrUnsortedFrames = errors.New("event frames must be non-decreasing")

	defaultOnce     sync.Once
	defaultTimeline *Timeline
)

// Default returns the built-in timeline. Every call gets its own copy.
func Default() *Timeline {
	defaultOnce.Do(func() {
		tl, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("timeline: embedded default is broken: %v", err))
		}
		defaultTimeline = tl
	})
	return defaultTimeline.Clone()
}

// Parse decodes a timeline from YAML and normalises its texts
func Parse(data []byte) (*Timeline, error) {
	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	normalize(&tl)
	return &tl, nil
}

// ReadTimeline reads a timeline from a YAML file
func ReadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// WriteTimeline writes a timeline to a YAML file
func WriteTimeline(tl *Timeline, path string) error {
	data, err := yaml.Marshal(tl)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the authoring rules of a timeline. Rendering does not depend
// on it: an invalid table still renders, just not the way its author intended.
func Validate(tl *Timeline) error {
	if len(tl.Events) == 0 {
		return ErrNoTimeline
	}
	if tl.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", tl.FPS)
	}
	if tl.DurationFrames <= 0 {
		return fmt.Errorf("duration_frames must be positive, got %d", tl.DurationFrames)
	}

	for i, e := range tl.Events {
		if i > 0 && e.Frame < tl.Events[i-1].Frame {
			return fmt.Errorf("event %d at frame %d follows frame %d: %w", i, e.Frame, tl.Events[i-1].Frame, ErrUnsortedFrames)
		}

		switch e.Type {
		case TypeTitle, TypeTerminalStart, TypeOutro:
		case TypeLine:
			if e.Text == "" {
				return fmt.Errorf("event %d (frame %d): line without text", i, e.Frame)
			}
			switch e.Style {
			case StyleNone, StyleCmd, StyleDim, StyleError, StyleCursor:
			default:
				return fmt.Errorf("event %d (frame %d): unknown style %q", i, e.Frame, e.Style)
			}
		case TypeSoundLine:
			if e.Text == "" {
				return fmt.Errorf("event %d (frame %d): sound-line without text", i, e.Frame)
			}
		default:
			return fmt.Errorf("event %d (frame %d): unknown type %q", i, e.Frame, e.Type)
		}
	}

	for i, r := range tl.TabTitles {
		if r.Until != 0 && r.Until <= r.From {
			return fmt.Errorf("tab title rule %d: empty range [%d,%d)", i, r.From, r.Until)
		}
	}
	return nil
}

// normalize brings every user-visible text to NFC so that typing counts
// precomposed characters once
func normalize(tl *Timeline) {
	for i := range tl.Events {
		tl.Events[i].Text = norm.NFC.String(tl.Events[i].Text)
		tl.Events[i].Label = norm.NFC.String(tl.Events[i].Label)
	}
	tl.Project = norm.NFC.String(tl.Project)
	tl.Title.Kicker = norm.NFC.String(tl.Title.Kicker)
	tl.Title.Heading = norm.NFC.String(tl.Title.Heading)
	tl.Title.Subtitle = norm.NFC.String(tl.Title.Subtitle)
	tl.Title.Footer = norm.NFC.String(tl.Title.Footer)
	tl.Outro.Heading = norm.NFC.String(tl.Outro.Heading)
	tl.Outro.Note = norm.NFC.String(tl.Outro.Note)
}
