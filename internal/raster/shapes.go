package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

func wipe(img *image.RGBA) {
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// fillRoundRect fills r with corners of the given radius, one span per row
func fillRoundRect(dst draw.Image, r image.Rectangle, radius int, c color.Color) {
	src := image.NewUniform(c)
	rad := float64(radius)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		inset := 0
		dy := -1.0
		if y-r.Min.Y < radius {
			dy = rad - float64(y-r.Min.Y) - 0.5
		} else if r.Max.Y-1-y < radius {
			dy = rad - float64(r.Max.Y-1-y) - 0.5
		}
		if dy >= 0 {
			inset = int(math.Round(rad - math.Sqrt(math.Max(0, rad*rad-dy*dy))))
		}
		span := image.Rect(r.Min.X+inset, y, r.Max.X-inset, y+1)
		draw.Draw(dst, span, src, image.Point{}, draw.Over)
	}
}

// strokeRoundRect draws a border of width w inside r. Both colours are
// expected to be opaque.
func strokeRoundRect(dst draw.Image, r image.Rectangle, radius, w int, border, fill color.Color) {
	fillRoundRect(dst, r, radius, border)
	fillRoundRect(dst, r.Inset(w), radius-w, fill)
}

func fillCircle(dst draw.Image, center image.Point, diameter int, c color.Color) {
	radius := float64(diameter) / 2
	cx := float64(center.X)
	cy := float64(center.Y)
	src := image.NewUniform(c)
	for y := center.Y - diameter/2 - 1; y <= center.Y+diameter/2+1; y++ {
		dy := float64(y) + 0.5 - cy
		if math.Abs(dy) > radius {
			continue
		}
		half := math.Sqrt(radius*radius - dy*dy)
		x0 := int(math.Round(cx - half))
		x1 := int(math.Round(cx + half))
		draw.Draw(dst, image.Rect(x0, y, x1, y+1), src, image.Point{}, draw.Over)
	}
}

// speakerIcon draws a loudspeaker with two sound waves into a size×size box
// whose top-left corner is at pt
func speakerIcon(dst draw.Image, pt image.Point, size int, c color.Color) {
	s := float64(size)
	src := image.NewUniform(c)

	// Magnet
	body := image.Rect(pt.X+int(s*0.08), pt.Y+int(s*0.36), pt.X+int(s*0.28), pt.Y+int(s*0.64))
	draw.Draw(dst, body, src, image.Point{}, draw.Over)

	// Cone widening to the right
	coneX0, coneX1 := s*0.28, s*0.55
	for x := coneX0; x < coneX1; x++ {
		t := (x - coneX0) / (coneX1 - coneX0)
		half := s * (0.14 + 0.24*t)
		y0 := pt.Y + int(s*0.5-half)
		y1 := pt.Y + int(s*0.5+half)
		draw.Draw(dst, image.Rect(pt.X+int(x), y0, pt.X+int(x)+1, y1), src, image.Point{}, draw.Over)
	}

	// Waves
	thick := int(math.Max(1, s*0.07))
	for _, w := range []struct{ x, h float64 }{{0.66, 0.18}, {0.82, 0.3}} {
		x := pt.X + int(s*w.x)
		r := image.Rect(x, pt.Y+int(s*(0.5-w.h)), x+thick, pt.Y+int(s*(0.5+w.h)))
		draw.Draw(dst, r, src, image.Point{}, draw.Over)
	}
}

// composite draws src over dst with a global opacity
func composite(dst draw.Image, src *image.RGBA, opacity float64) {
	a := alpha8(opacity)
	if a == 0 {
		return
	}
	if a == 255 {
		draw.Draw(dst, src.Bounds(), src, src.Bounds().Min, draw.Over)
		return
	}
	draw.DrawMask(dst, src.Bounds(), src, src.Bounds().Min, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
}

// scaleAbout scales region of src by factor around its centre and draws it over dst
func scaleAbout(dst draw.Image, src image.Image, region image.Rectangle, factor float64) {
	if factor == 1 {
		draw.Draw(dst, region, src, region.Min, draw.Over)
		return
	}
	cx := float64(region.Min.X+region.Max.X) / 2
	cy := float64(region.Min.Y+region.Max.Y) / 2
	hw := float64(region.Dx()) * factor / 2
	hh := float64(region.Dy()) * factor / 2
	target := image.Rect(int(math.Round(cx-hw)), int(math.Round(cy-hh)), int(math.Round(cx+hw)), int(math.Round(cy+hh)))
	xdraw.ApproxBiLinear.Scale(dst, target, src, region, draw.Over, nil)
}
