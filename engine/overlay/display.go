package overlay

import (
	"image/color"

	"tinygo.org/x/drivers"

	"axiom/engine/quarkgl"
)

var _ drivers.Displayer = (*display)(nil)

// display lets tinyfont draw onto a render target.
type display struct {
	t quarkgl.Target
}

func (d *display) Size() (x, y int16) {
	if d.t == nil {
		return 0, 0
	}
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d *display) SetPixel(x, y int16, c color.RGBA) {
	if d.t == nil {
		return
	}
	d.t.SetPixel(int(x), int(y), quarkgl.RGB(c.R, c.G, c.B))
}

func (d *display) Display() error { return nil }

// FillRectangle paints a box. A translucent color is blended when the
// target can read pixels back.
func (d *display) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.t == nil {
		return nil
	}
	w, h := d.t.Size()
	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	px := quarkgl.RGBA(c.R, c.G, c.B, c.A)
	b, blend := d.t.(quarkgl.Blender)
	for py := y0; py < y1; py++ {
		for qx := x0; qx < x1; qx++ {
			if blend && c.A != 0xFF {
				b.Blend(qx, py, px, quarkgl.BlendNormal)
				continue
			}
			d.t.SetPixel(qx, py, px)
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
