// Package palette holds the colours shared by the raster and ANSI renderers
package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/packpreview/internal/scene"
)

// Palette holds every colour of the video
type Palette struct {
	Backdrop colorful.Color
	TermBG   colorful.Color
	BarBG    colorful.Color
	Border   colorful.Color
	Green    colorful.Color
	Gold     colorful.Color
	Red      colorful.Color
	Dim      colorful.Color
	Bright   colorful.Color
	Muted    colorful.Color
	White    colorful.Color
	Lights   [3]colorful.Color // close, minimise, zoom
}

// Default is the dark terminal theme with Red Alert accents
func Default() Palette {
	p := Palette{
		Backdrop: MustHex("#0a0a0f"),
		TermBG:   MustHex("#1a1b26"),
		BarBG:    MustHex("#0c0d14"),
		Green:    MustHex("#4ade80"),
		Gold:     MustHex("#d4a520"),
		Red:      MustHex("#c41e1e"),
		Dim:      MustHex("#505a79"),
		Bright:   MustHex("#e0e8ff"),
		Muted:    MustHex("#9ca8c5"),
		White:    MustHex("#ffffff"),
		Lights: [3]colorful.Color{
			MustHex("#ff5f57"),
			MustHex("#febc2e"),
			MustHex("#28c840"),
		},
	}
	// Window border with a faint gold glow
	p.Border = MustHex("#222233").BlendRgb(p.Gold, 0.15)
	return p
}

// Tone resolves a text role to a colour. Unknown roles are dim.
func (p Palette) Tone(t scene.Tone) colorful.Color {
	switch t {
	case scene.ToneGreen:
		return p.Green
	case scene.ToneBright:
		return p.Bright
	case scene.ToneRed:
		return p.Red
	case scene.ToneGold:
		return p.Gold
	default:
		return p.Dim
	}
}

// MustHex parses a #rrggbb literal and panics on a malformed one
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
