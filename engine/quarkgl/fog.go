package quarkgl

import "math"

// Fog fades fragments toward Color with distance from the camera. A positive
// Density selects exponential-squared falloff; otherwise the fade is linear
// between Near and Far.
type Fog struct {
	Color   *ColorRGB
	Near    float64
	Far     float64
	Density float64
}

func NewFog(color any, near, far float64) *Fog {
	return &Fog{Color: NewColor(color), Near: near, Far: far}
}

func NewFogExp2(color any, density float64) *Fog {
	return &Fog{Color: NewColor(color), Density: density}
}

func (f *Fog) Clone() *Fog {
	c := *f
	if f.Color != nil {
		c.Color = f.Color.Clone()
	}
	return &c
}

// amount returns how much of the fog color replaces a fragment at dist.
func (f *Fog) amount(dist float64) Scalar {
	if f == nil {
		return 0
	}
	if f.Density > 0 {
		d := f.Density * dist
		return Clamp01(Scalar(1 - math.Exp(-d*d)))
	}
	if f.Far <= f.Near {
		return 0
	}
	return Clamp01(Scalar((dist - f.Near) / (f.Far - f.Near)))
}

// fogged mixes c toward the fog color for a fragment at world position p.
func (r *Renderer) fogged(c, p Vec3) Vec3 {
	if r.fog == nil {
		return c
	}
	k := r.fog.amount(float64(Len(p.Sub(r.eye))))
	if k <= 0 {
		return c
	}
	fc := colorVec(r.fog.Color)
	return c.Add(fc.Sub(c).Mul(k))
}
