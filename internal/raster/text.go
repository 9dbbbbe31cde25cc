package raster

import (
	"image"
	"image/color"
	"image/draw"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// pictograph reports whether r has no glyph in the Go fonts and is drawn as an icon
func pictograph(r rune) bool {
	return unicode.Is(unicode.So, r) && r > 0x2BFF
}

// measure returns the advance of s in pixels, counting icons as one em
func measure(face font.Face, s string) int {
	var adv fixed.Int26_6
	var run []rune
	flush := func() {
		adv += font.MeasureString(face, string(run))
		run = run[:0]
	}
	for _, r := range s {
		if pictograph(r) {
			flush()
			adv += emWidth(face)
			continue
		}
		run = append(run, r)
	}
	flush()
	return adv.Ceil()
}

// drawText draws s with its baseline at (x, y) and returns the x after the last glyph
func drawText(dst draw.Image, face font.Face, s string, x, y int, c color.Color) int {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}

	var run []rune
	flush := func() {
		if len(run) > 0 {
			d.DrawString(string(run))
			run = run[:0]
		}
	}
	for _, r := range s {
		if !pictograph(r) {
			run = append(run, r)
			continue
		}
		flush()
		em := emWidth(face)
		size := em.Ceil()
		top := d.Dot.Y.Floor() - face.Metrics().Ascent.Ceil() + size/8
		speakerIcon(dst, image.Pt(d.Dot.X.Floor(), top), size, c)
		d.Dot.X += em
	}
	flush()
	return d.Dot.X.Ceil()
}

// drawSpaced draws s with extra tracking between characters
func drawSpaced(dst draw.Image, face font.Face, s string, x, y, tracking int, c color.Color) int {
	for _, r := range s {
		x = drawText(dst, face, string(r), x, y, c) + tracking
	}
	return x - tracking
}

func measureSpaced(face font.Face, s string, tracking int) int {
	w := 0
	n := 0
	for _, r := range s {
		w += measure(face, string(r))
		n++
	}
	if n > 1 {
		w += (n - 1) * tracking
	}
	return w
}

// drawCentered draws s horizontally centred on cx
func drawCentered(dst draw.Image, face font.Face, s string, cx, y int, c color.Color) {
	drawText(dst, face, s, cx-measure(face, s)/2, y, c)
}

func emWidth(face font.Face) fixed.Int26_6 {
	if adv, ok := face.GlyphAdvance('M'); ok {
		return adv * 2
	}
	return face.Metrics().Height
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}
