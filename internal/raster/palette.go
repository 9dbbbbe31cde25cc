package raster

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// nrgba converts a palette colour to a drawable colour with the given opacity
func nrgba(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(opacity)}
}

func alpha8(opacity float64) uint8 {
	if opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return 255
	}
	return uint8(opacity*255 + 0.5)
}
