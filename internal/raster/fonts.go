package raster

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Parsed fonts are shared; faces are not safe for concurrent use and
// belong to a single Renderer.
var (
	fontsOnce   sync.Once
	fontsErr    error
	monoFont    *opentype.Font
	boldFont    *opentype.Font
	regularFont *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if monoFont, fontsErr = opentype.Parse(gomono.TTF); fontsErr != nil {
			return
		}
		if boldFont, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
	})
	return fontsErr
}

// faces are all text sizes used by the video, already scaled to the output
type faces struct {
	body     font.Face // terminal lines
	tab      font.Face // window title
	badge    font.Face
	kicker   font.Face
	heading  font.Face // title card
	subtitle font.Face
	footer   font.Face
	outro    font.Face
	url      font.Face
	note     font.Face
}

func newFaces(scale float64) (faces, error) {
	if err := loadFonts(); err != nil {
		return faces{}, fmt.Errorf("parse fonts: %w", err)
	}

	var f faces
	specs := []struct {
		dst  *font.Face
		src  *opentype.Font
		size float64
	}{
		{&f.body, monoFont, 22},
		{&f.tab, monoFont, 14},
		{&f.badge, monoFont, 20},
		{&f.kicker, monoFont, 22},
		{&f.heading, boldFont, 76},
		{&f.subtitle, regularFont, 36},
		{&f.footer, monoFont, 18},
		{&f.outro, boldFont, 52},
		{&f.url, monoFont, 24},
		{&f.note, monoFont, 18},
	}

	for _, s := range specs {
		face, err := opentype.NewFace(s.src, &opentype.FaceOptions{
			Size:    s.size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			f.Close()
			return faces{}, fmt.Errorf("create face %.0fpt: %w", s.size, err)
		}
		*s.dst = face
	}
	return f, nil
}

func (f faces) Close() {
	for _, face := range []font.Face{f.body, f.tab, f.badge, f.kicker, f.heading, f.subtitle, f.footer, f.outro, f.url, f.note} {
		if face != nil {
			face.Close()
		}
	}
}
