package scene

import (
	"github.com/ivlev/packpreview/internal/audio"
	"github.com/ivlev/packpreview/internal/timeline"
)

// Tone is the palette role of a piece of text
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneBright Tone = "bright"
	ToneRed    Tone = "red"
	ToneDim    Tone = "dim"
	ToneGold   Tone = "gold"
)

// State is everything visible and audible at one frame
type State struct {
	Frame    int         `yaml:"frame"`
	Title    TitleCard   `yaml:"title"`
	Terminal Terminal    `yaml:"terminal"`
	Outro    OutroCard   `yaml:"outro"`
	Audio    []audio.Cue `yaml:"audio,omitempty"`
}

// TitleCard is the intro card
type TitleCard struct {
	Visible    bool    `yaml:"visible"`
	Opacity    float64 `yaml:"opacity"`     // Exit fade of the whole card
	Enter      float64 `yaml:"enter"`       // Heading block spring
	OffsetY    float64 `yaml:"offset_y"`    // Heading block rise, px
	SubOpacity float64 `yaml:"sub_opacity"` // Kicker, subtitle and footer spring

	Kicker   string `yaml:"kicker,omitempty"`
	Heading  string `yaml:"heading,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty"`
	Footer   string `yaml:"footer,omitempty"`
}

// Terminal is the simulated terminal window
type Terminal struct {
	Visible  bool                `yaml:"visible"`
	Opacity  float64             `yaml:"opacity"`
	TabTitle string              `yaml:"tab_title"`
	TabState timeline.TitleState `yaml:"tab_state"`
	Lines    []Line              `yaml:"lines,omitempty"`
}

// Line is one row of terminal output
type Line struct {
	Frame   int                `yaml:"frame"`
	Type    timeline.EventType `yaml:"type"`
	Style   timeline.Style     `yaml:"style,omitempty"`
	Tone    Tone               `yaml:"tone"`
	Text    string             `yaml:"text"`
	Shown   string             `yaml:"shown"` // Revealed part of Text
	Opacity float64            `yaml:"opacity"`
	OffsetY float64            `yaml:"offset_y"` // px below the resting position

	Caret     bool `yaml:"caret,omitempty"`      // Typing caret after Shown
	Cursor    bool `yaml:"cursor,omitempty"`     // Prompt line with a blinking cursor
	CursorLit bool `yaml:"cursor_lit,omitempty"` // Blink phase

	Badge *Badge `yaml:"badge,omitempty"`
}

// Badge is the caption pulsing next to a sound line
type Badge struct {
	Label   string  `yaml:"label"`
	Opacity float64 `yaml:"opacity"`
	Scale   float64 `yaml:"scale"`
}

// OutroCard is the closing card
type OutroCard struct {
	Visible bool    `yaml:"visible"`
	Enter   float64 `yaml:"enter"`
	Scale   float64 `yaml:"scale"`

	Heading string `yaml:"heading,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Note    string `yaml:"note,omitempty"`
}
