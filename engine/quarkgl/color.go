package quarkgl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGBA color in 8-bit channels. It is the rasterizer's pixel type.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

func (c Color) MulScalar(s Scalar) Color {
	t := uint32(Clamp01(s) * 255)
	mul := func(ch uint8) uint8 {
		return uint8((uint32(ch) * t) / 255)
	}
	return Color{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: c.A}
}

func (c Color) WithAlpha(a uint8) Color { c.A = a; return c }

// BlendMode selects how a source pixel combines with the destination.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendAdditive
)

// Blend combines src over dst. src.A is the source coverage.
func Blend(dst, src Color, mode BlendMode) Color {
	a := uint32(src.A)
	switch mode {
	case BlendAdditive:
		add := func(d, s uint8) uint8 {
			v := uint32(d) + uint32(s)*a/255
			if v > 255 {
				v = 255
			}
			return uint8(v)
		}
		return Color{R: add(dst.R, src.R), G: add(dst.G, src.G), B: add(dst.B, src.B), A: 0xFF}
	default:
		mix := func(d, s uint8) uint8 {
			return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
		}
		return Color{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 0xFF}
	}
}

// ColorRGB is a scene-facing color with float channels in 0..1.
type ColorRGB struct {
	R, G, B float64
}

// NewColor parses any value accepted by ColorRGB.Set. Unknown values yield white.
func NewColor(v ...any) *ColorRGB {
	c := &ColorRGB{R: 1, G: 1, B: 1}
	switch len(v) {
	case 0:
	case 3:
		c.SetRGB(toFloat(v[0]), toFloat(v[1]), toFloat(v[2]))
	default:
		c.Set(v[0])
	}
	return c
}

// ColorHex returns the color for a 0xRRGGBB value.
func ColorHex(hex int64) *ColorRGB {
	c := &ColorRGB{}
	return c.SetHex(hex)
}

func (c *ColorRGB) SetHex(hex int64) *ColorRGB {
	c.R = float64((hex>>16)&0xFF) / 255
	c.G = float64((hex>>8)&0xFF) / 255
	c.B = float64(hex&0xFF) / 255
	return c
}

func (c *ColorRGB) SetRGB(r, g, b float64) *ColorRGB {
	c.R, c.G, c.B = r, g, b
	return c
}

// SetHSL sets the color from hue, saturation and lightness, all in 0..1.
func (c *ColorRGB) SetHSL(h, s, l float64) *ColorRGB {
	h = h - math.Floor(h)
	s = clampF64(s, 0, 1)
	l = clampF64(l, 0, 1)
	if s == 0 {
		return c.SetRGB(l, l, l)
	}
	var q float64
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return c.SetRGB(hue2rgb(p, q, h+1.0/3), hue2rgb(p, q, h), hue2rgb(p, q, h-1.0/3))
}

func hue2rgb(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	}
	return p
}

// Set accepts a hex number, a CSS-style string ("#ff8800", "orange") or another color.
func (c *ColorRGB) Set(v any) *ColorRGB {
	if parsed, ok := ParseColor(v); ok {
		*c = parsed
	}
	return c
}

func (c *ColorRGB) Copy(o *ColorRGB) *ColorRGB {
	if o != nil {
		*c = *o
	}
	return c
}

func (c *ColorRGB) Clone() *ColorRGB {
	cp := *c
	return &cp
}

func (c *ColorRGB) Lerp(o *ColorRGB, t float64) *ColorRGB {
	if o == nil {
		return c
	}
	c.R = Lerp(c.R, o.R, t)
	c.G = Lerp(c.G, o.G, t)
	c.B = Lerp(c.B, o.B, t)
	return c
}

func (c *ColorRGB) MultiplyScalar(s float64) *ColorRGB {
	c.R *= s
	c.G *= s
	c.B *= s
	return c
}

func (c *ColorRGB) OffsetHSL(dh, ds, dl float64) *ColorRGB {
	h, s, l := c.HSL()
	return c.SetHSL(h+dh, s+ds, l+dl)
}

// HSL returns hue, saturation and lightness in 0..1.
func (c *ColorRGB) HSL() (h, s, l float64) {
	maxC := math.Max(c.R, math.Max(c.G, c.B))
	minC := math.Min(c.R, math.Min(c.G, c.B))
	l = (maxC + minC) / 2
	if maxC == minC {
		return 0, 0, l
	}
	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	switch maxC {
	case c.R:
		h = (c.G - c.B) / d
		if c.G < c.B {
			h += 6
		}
	case c.G:
		h = (c.B-c.R)/d + 2
	default:
		h = (c.R-c.G)/d + 4
	}
	return h / 6, s, l
}

func (c *ColorRGB) GetHex() int64 {
	p := c.Pixel(1)
	return int64(p.R)<<16 | int64(p.G)<<8 | int64(p.B)
}

func (c *ColorRGB) GetHexString() string {
	return fmt.Sprintf("%06x", c.GetHex())
}

// Pixel converts to the rasterizer color with the given opacity.
func (c *ColorRGB) Pixel(opacity float64) Color {
	if c == nil {
		return RGBA(0xFF, 0xFF, 0xFF, uint8(clampF64(opacity, 0, 1)*255))
	}
	ch := func(v float64) uint8 { return uint8(clampF64(v, 0, 1)*255 + 0.5) }
	return Color{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: uint8(clampF64(opacity, 0, 1)*255 + 0.5)}
}

var namedColors = map[string]int64{
	"black":   0x000000,
	"white":   0xffffff,
	"red":     0xff0000,
	"green":   0x008000,
	"lime":    0x00ff00,
	"blue":    0x0000ff,
	"yellow":  0xffff00,
	"cyan":    0x00ffff,
	"aqua":    0x00ffff,
	"magenta": 0xff00ff,
	"fuchsia": 0xff00ff,
	"orange":  0xffa500,
	"purple":  0x800080,
	"pink":    0xffc0cb,
	"hotpink": 0xff69b4,
	"gold":    0xffd700,
	"gray":    0x808080,
	"grey":    0x808080,
	"skyblue": 0x87ceeb,
	"navy":    0x000080,
	"teal":    0x008080,
	"violet":  0xee82ee,
	"indigo":  0x4b0082,
	"silver":  0xc0c0c0,
}

// ParseColor converts a loosely typed value into a color.
func ParseColor(v any) (ColorRGB, bool) {
	switch x := v.(type) {
	case nil:
		return ColorRGB{}, false
	case *ColorRGB:
		if x == nil {
			return ColorRGB{}, false
		}
		return *x, true
	case ColorRGB:
		return x, true
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if hex, ok := namedColors[s]; ok {
			return *ColorHex(hex), true
		}
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimPrefix(s, "0x")
		if len(s) == 3 {
			s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
		}
		hex, err := strconv.ParseInt(s, 16, 64)
		if err != nil || len(s) != 6 {
			return ColorRGB{}, false
		}
		return *ColorHex(hex), true
	}
	if f, ok := numeric(v); ok {
		return *ColorHex(int64(f)), true
	}
	return ColorRGB{}, false
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

func toFloat(v any) float64 {
	f, _ := numeric(v)
	return f
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
