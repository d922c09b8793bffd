package quarkgl

import (
	"image"
	"image/color"
)

// RGBATarget renders into an image.RGBA, used for snapshots and tests.
type RGBATarget struct {
	Img *image.RGBA
}

func NewRGBATarget(w, h int) *RGBATarget {
	return &RGBATarget{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (t *RGBATarget) Size() (w, h int) {
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *RGBATarget) Clear(c Color) {
	pix := t.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, 0xFF
	}
}

func (t *RGBATarget) SetPixel(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(t.Img.Rect)) {
		return
	}
	t.Img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
}

// Pixel reads back the color at x, y.
func (t *RGBATarget) Pixel(x, y int) Color {
	p := t.Img.RGBAAt(x, y)
	return RGB(p.R, p.G, p.B)
}

func (t *RGBATarget) Blend(x, y int, c Color, mode BlendMode) {
	if !(image.Point{X: x, Y: y}.In(t.Img.Rect)) {
		return
	}
	t.SetPixel(x, y, Blend(t.Pixel(x, y), c, mode))
}
