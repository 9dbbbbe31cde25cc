package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/ease"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ivlev/packpreview/internal/anim"
	"github.com/ivlev/packpreview/internal/palette"
	"github.com/ivlev/packpreview/internal/scene"
	"github.com/ivlev/packpreview/internal/timeline"
)

// Layout of the reference 1920x1080 frame, px
const (
	baseWidth  = 1920
	baseHeight = 1080

	termWidth     = 940
	termRadius    = 12
	termMinBody   = 500
	barPadY       = 14
	barPadX       = 18
	lightSize     = 14
	lightGap      = 8
	bodyPadY      = 24
	bodyPadX      = 28
	linePitch     = 44 // 22px at line-height 2
	lineGap       = 4
	caretWidth    = 10
	badgeMargin   = 12
	cardBarHeight = 4
	qrSize        = 160
)

// Renderer draws scene states into frames. A Renderer owns font faces and
// scratch buffers and must not be shared between goroutines.
type Renderer struct {
	width, height int
	scale         float64
	colors        palette.Palette
	faces         faces
	qr            image.Image
	layer         *image.RGBA
	scratch       *image.RGBA
	upper         cases.Caser // Kicker text
}

// NewRenderer prepares fonts, palette and the outro QR code for frames of width×height
func NewRenderer(tl *timeline.Timeline, width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	scale := math.Min(float64(width)/baseWidth, float64(height)/baseHeight)
	f, err := newFaces(scale)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		width:   width,
		height:  height,
		scale:   scale,
		colors:  palette.Default(),
		faces:   f,
		layer:   image.NewRGBA(image.Rect(0, 0, width, height)),
		scratch: image.NewRGBA(image.Rect(0, 0, width, height)),
		upper:   cases.Upper(language.Und),
	}

	if tl.Outro.URL != "" {
		qr, err := qrcode.New("https://"+tl.Outro.URL, qrcode.Medium)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("qr code: %w", err)
		}
		qr.DisableBorder = true
		qr.ForegroundColor = nrgba(r.colors.Gold, 1)
		qr.BackgroundColor = color.NRGBA{}
		r.qr = qr.Image(256)
	}

	return r, nil
}

// Close releases the font faces
func (r *Renderer) Close() {
	r.faces.Close()
}

// Bounds is the frame rectangle
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Frame draws st into a new image
func (r *Renderer) Frame(st scene.State) *image.RGBA {
	dst := image.NewRGBA(r.Bounds())
	r.Draw(dst, st)
	return dst
}

// Draw paints the whole frame for st into dst, which must have the renderer's bounds
func (r *Renderer) Draw(dst *image.RGBA, st scene.State) {
	fillRect(dst, dst.Bounds(), nrgba(r.colors.Backdrop, 1))

	if st.Title.Visible && st.Title.Opacity > 0 {
		wipe(r.layer)
		r.drawTitle(r.layer, st.Title)
		composite(dst, r.layer, st.Title.Opacity)
	}

	if st.Terminal.Visible && st.Terminal.Opacity > 0 {
		wipe(r.layer)
		r.drawTerminal(r.layer, st.Terminal)
		composite(dst, r.layer, st.Terminal.Opacity)
	}

	if st.Outro.Visible {
		r.drawOutro(dst, st.Outro)
	}
}

func (r *Renderer) px(v float64) int {
	return int(math.Round(v * r.scale))
}

func (r *Renderer) cardBars(dst draw.Image) {
	h := int(math.Max(1, float64(r.px(cardBarHeight))))
	red := nrgba(r.colors.Red, 1)
	fillRect(dst, image.Rect(0, 0, r.width, h), red)
	fillRect(dst, image.Rect(0, r.height-h, r.width, r.height), red)
}

func (r *Renderer) drawTitle(dst *image.RGBA, c scene.TitleCard) {
	fillRect(dst, dst.Bounds(), nrgba(r.colors.Backdrop, 1))
	r.cardBars(dst)

	f := r.faces
	cx := r.width / 2
	sub := c.Enter * c.SubOpacity

	kickerH := lineHeight(f.kicker)
	headingH := r.px(76 * 1.2)
	subtitleH := lineHeight(f.subtitle)
	footerH := lineHeight(f.footer)
	total := kickerH + r.px(16) + headingH + r.px(12) + subtitleH + r.px(24) + footerH

	y := r.height/2 - total/2 + r.px(c.OffsetY)

	// Kicker, uppercase with wide tracking
	tracking := r.px(6)
	kicker := r.upper.String(c.Kicker)
	w := measureSpaced(f.kicker, kicker, tracking)
	drawSpaced(dst, f.kicker, kicker, cx-w/2, y+f.kicker.Metrics().Ascent.Ceil(), tracking, nrgba(r.colors.Red, sub))
	y += kickerH + r.px(16)

	// Heading with a hard drop shadow
	base := y + (headingH+f.heading.Metrics().Ascent.Ceil()-f.heading.Metrics().Descent.Ceil())/2
	shadow := r.px(3)
	drawCentered(dst, f.heading, c.Heading, cx+shadow, base+shadow, color.NRGBA{A: alpha8(0.8 * c.Enter)})
	drawCentered(dst, f.heading, c.Heading, cx, base, nrgba(r.colors.White, c.Enter))
	y += headingH + r.px(12)

	drawCentered(dst, f.subtitle, c.Subtitle, cx, y+f.subtitle.Metrics().Ascent.Ceil(), nrgba(r.colors.White, 0.5*sub))
	y += subtitleH + r.px(24)

	drawCentered(dst, f.footer, c.Footer, cx, y+f.footer.Metrics().Ascent.Ceil(), nrgba(r.colors.White, 0.3*sub))
}

func (r *Renderer) drawTerminal(dst *image.RGBA, t scene.Terminal) {
	p := r.colors
	f := r.faces

	pitch := r.px(linePitch + lineGap)
	barH := r.px(barPadY*2 + lightSize)
	bodyH := r.px(bodyPadY*2) + len(t.Lines)*pitch
	bodyH = max(bodyH, r.px(termMinBody))
	border := 1
	w := r.px(termWidth)
	h := border + barH + border + bodyH + border

	left := (r.width - w) / 2
	top := (r.height - h) / 2
	frame := image.Rect(left, top, left+w, top+h)
	radius := r.px(termRadius)

	// Window: border, body, then the title bar over the top rows
	strokeRoundRect(dst, frame, radius, border, nrgba(p.Border, 1), nrgba(p.TermBG, 1))
	bar := image.Rect(left+border, top+border, left+w-border, top+border+barH)
	r.fillTopRounded(dst, bar, radius-border, nrgba(p.BarBG, 1))
	fillRect(dst, image.Rect(bar.Min.X, bar.Max.Y, bar.Max.X, bar.Max.Y+border), nrgba(p.Border, 1))

	// Traffic lights
	dot := r.px(lightSize)
	cy := bar.Min.Y + barH/2
	x := bar.Min.X + r.px(barPadX)
	for _, c := range p.Lights {
		fillCircle(dst, image.Pt(x+dot/2, cy), dot, nrgba(c, 1))
		x += dot + r.px(lightGap)
	}

	// Tab title, right aligned
	tw := measure(f.tab, t.TabTitle)
	tabBase := cy + (f.tab.Metrics().Ascent.Ceil()-f.tab.Metrics().Descent.Ceil())/2
	drawText(dst, f.tab, t.TabTitle, bar.Max.X-r.px(barPadX)-tw, tabBase, nrgba(p.Dim, 1))

	// Body
	bodyTop := bar.Max.Y + border + r.px(bodyPadY)
	textLeft := left + border + r.px(bodyPadX)
	clip := dst.SubImage(image.Rect(left+border, bar.Max.Y+border, left+w-border, top+h-border)).(*image.RGBA)
	for i, l := range t.Lines {
		lineTop := bodyTop + i*pitch + r.px(l.OffsetY)
		r.drawLine(clip, l, textLeft, lineTop)
	}
}

// fillTopRounded fills r with only its top corners rounded
func (r *Renderer) fillTopRounded(dst draw.Image, rect image.Rectangle, radius int, c color.Color) {
	if rect.Dy() <= radius {
		fillRect(dst, rect, c)
		return
	}
	fillRoundRect(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+2*radius), radius, c)
	fillRect(dst, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Max.X, rect.Max.Y), c)
}

func (r *Renderer) drawLine(dst *image.RGBA, l scene.Line, x, top int) {
	if l.Opacity <= 0 {
		return
	}
	face := r.faces.body
	m := face.Metrics()
	box := r.px(linePitch)
	base := top + (box+m.Ascent.Ceil()-m.Descent.Ceil())/2
	col := nrgba(r.colors.Tone(l.Tone), l.Opacity)

	end := drawText(dst, face, l.Shown, x, base, col)

	// Block caret or cursor, 1.1em tall, sitting on the text bottom
	block := func(visible bool) {
		if !visible {
			return
		}
		bottom := base + m.Descent.Ceil()
		height := r.px(22 * 1.1)
		fillRect(dst, image.Rect(end+1, bottom-height, end+1+r.px(caretWidth), bottom), nrgba(r.colors.Green, l.Opacity))
	}
	block(l.Caret)
	if l.Cursor {
		block(l.CursorLit)
	}

	if l.Badge != nil && l.Badge.Opacity > 0 {
		r.drawBadge(dst, l.Badge, end+r.px(badgeMargin), base, l.Opacity)
	}
}

// drawBadge renders the label once at rest size and scales it about its centre
func (r *Renderer) drawBadge(dst *image.RGBA, b *scene.Badge, x, base int, lineOpacity float64) {
	face := r.faces.badge
	m := face.Metrics()
	w := measure(face, b.Label) + 2
	h := m.Height.Ceil() + 2
	top := base - m.Ascent.Ceil() - 1

	region := image.Rect(x, top, x+w, top+h)
	label := image.NewRGBA(region)
	drawText(label, face, b.Label, x+1, base, nrgba(r.colors.Dim, b.Opacity*lineOpacity))
	scaleAbout(dst, label, region, b.Scale)
}

func (r *Renderer) drawOutro(dst *image.RGBA, c scene.OutroCard) {
	fillRect(dst, dst.Bounds(), nrgba(r.colors.Backdrop, 1))
	r.cardBars(dst)
	if c.Enter <= 0 {
		return
	}

	p := r.colors
	f := r.faces
	layer := r.layer
	wipe(layer)
	cx := r.width / 2

	headingH := lineHeight(f.outro)
	urlH := lineHeight(f.url) + r.px(14*2)
	noteH := lineHeight(f.note)
	qrH := 0
	if r.qr != nil {
		qrH = r.px(30) + r.px(qrSize)
	}
	total := headingH + r.px(24) + urlH + r.px(30) + noteH + qrH
	y := r.height/2 - total/2

	base := y + f.outro.Metrics().Ascent.Ceil()
	shadow := r.px(2)
	drawCentered(layer, f.outro, c.Heading, cx+shadow, base+shadow, color.NRGBA{A: 204})
	drawCentered(layer, f.outro, c.Heading, cx, base, nrgba(p.White, 1))
	y += headingH + r.px(24)

	// URL pill
	uw := measure(f.url, c.URL) + r.px(28*2)
	pill := image.Rect(cx-uw/2, y, cx-uw/2+uw, y+urlH)
	fillRoundRect(layer, pill, r.px(6), nrgba(p.Gold, 0.3))
	fillRoundRect(layer, pill.Inset(1), r.px(6)-1, nrgba(p.Backdrop, 1))
	fillRoundRect(layer, pill.Inset(1), r.px(6)-1, color.NRGBA{R: 255, G: 255, B: 255, A: alpha8(0.05)})
	urlBase := y + (urlH+f.url.Metrics().Ascent.Ceil()-f.url.Metrics().Descent.Ceil())/2
	drawCentered(layer, f.url, c.URL, cx, urlBase, nrgba(p.Gold, 1))
	y += urlH + r.px(30)

	drawCentered(layer, f.note, c.Note, cx, y+f.note.Metrics().Ascent.Ceil(), nrgba(p.White, 0.35))
	y += noteH

	if r.qr != nil {
		y += r.px(30)
		size := r.px(qrSize)
		target := image.Rect(cx-size/2, y, cx-size/2+size, y+size)
		qrLayer := r.scratch
		wipe(qrLayer)
		xdraw.NearestNeighbor.Scale(qrLayer, target, r.qr, r.qr.Bounds(), draw.Over, nil)
		// The code eases in a little behind the text
		composite(layer, qrLayer.SubImage(target).(*image.RGBA), anim.InterpolateEase(c.Enter, [2]float64{0, 1}, [2]float64{0, 1}, ease.InOutQuad))
	}

	if c.Scale == 1 {
		composite(dst, layer, c.Enter)
		return
	}
	scaled := r.scratch
	wipe(scaled)
	scaleAbout(scaled, layer, layer.Bounds(), c.Scale)
	composite(dst, scaled, c.Enter)
}
