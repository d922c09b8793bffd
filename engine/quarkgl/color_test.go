package quarkgl

import (
	"math"
	"testing"
)

func TestColorHexRoundTrip(t *testing.T) {
	c := ColorHex(0x33aaff)
	if got := c.GetHex(); got != 0x33aaff {
		t.Fatalf("GetHex = %06x", got)
	}
	if c.GetHexString() != "33aaff" {
		t.Fatalf("GetHexString = %s", c.GetHexString())
	}
}

func TestSetHSLPrimaries(t *testing.T) {
	cases := []struct {
		h    float64
		want int64
	}{
		{0, 0xff0000},
		{1.0 / 3, 0x00ff00},
		{2.0 / 3, 0x0000ff},
		{1, 0xff0000},
	}
	for _, tc := range cases {
		c := (&ColorRGB{}).SetHSL(tc.h, 1, 0.5)
		if got := c.GetHex(); got != tc.want {
			t.Fatalf("SetHSL(%v) = %06x, want %06x", tc.h, got, tc.want)
		}
	}
}

func TestHSLInverse(t *testing.T) {
	c := (&ColorRGB{}).SetHSL(0.6, 0.7, 0.4)
	h, s, l := c.HSL()
	if math.Abs(h-0.6) > 1e-9 || math.Abs(s-0.7) > 1e-9 || math.Abs(l-0.4) > 1e-9 {
		t.Fatalf("HSL = %v %v %v", h, s, l)
	}
}

func TestParseColor(t *testing.T) {
	for _, in := range []any{"#ff8800", "ff8800", "#f80", int64(0xff8800), float64(0xff8800)} {
		c, ok := ParseColor(in)
		if !ok || c.GetHex() != 0xff8800 {
			t.Fatalf("ParseColor(%v) = %06x, %v", in, c.GetHex(), ok)
		}
	}
	if c, ok := ParseColor("HotPink"); !ok || c.GetHex() != 0xff69b4 {
		t.Fatalf("named color not parsed")
	}
	if _, ok := ParseColor("not-a-color"); ok {
		t.Fatalf("garbage parsed")
	}
}

func TestBlendAdditiveSaturates(t *testing.T) {
	got := Blend(RGB(200, 10, 0), RGB(100, 10, 0), BlendAdditive)
	if got.R != 255 || got.G != 20 {
		t.Fatalf("additive = %+v", got)
	}
	half := Blend(RGB(0, 0, 0), RGBA(255, 255, 255, 128), BlendNormal)
	if half.R < 126 || half.R > 130 {
		t.Fatalf("normal 50%% = %+v", half)
	}
}
