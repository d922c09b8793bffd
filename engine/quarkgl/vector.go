package quarkgl

import "math"

// Vector3 is a mutable scene-facing vector. Methods mutate the receiver and
// return it so calls can be chained.
type Vector3 struct {
	X, Y, Z float64
}

func NewVector3(x, y, z float64) *Vector3 { return &Vector3{X: x, Y: y, Z: z} }

func (v *Vector3) Set(x, y, z float64) *Vector3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

func (v *Vector3) SetScalar(s float64) *Vector3 { return v.Set(s, s, s) }

func (v *Vector3) SetX(x float64) *Vector3 { v.X = x; return v }
func (v *Vector3) SetY(y float64) *Vector3 { v.Y = y; return v }
func (v *Vector3) SetZ(z float64) *Vector3 { v.Z = z; return v }

func (v *Vector3) Copy(o *Vector3) *Vector3 {
	if o != nil {
		*v = *o
	}
	return v
}

func (v *Vector3) Clone() *Vector3 {
	c := *v
	return &c
}

func (v *Vector3) Add(o *Vector3) *Vector3 {
	if o != nil {
		v.X += o.X
		v.Y += o.Y
		v.Z += o.Z
	}
	return v
}

func (v *Vector3) Sub(o *Vector3) *Vector3 {
	if o != nil {
		v.X -= o.X
		v.Y -= o.Y
		v.Z -= o.Z
	}
	return v
}

func (v *Vector3) AddScalar(s float64) *Vector3 {
	v.X += s
	v.Y += s
	v.Z += s
	return v
}

func (v *Vector3) MultiplyScalar(s float64) *Vector3 {
	v.X *= s
	v.Y *= s
	v.Z *= s
	return v
}

func (v *Vector3) DivideScalar(s float64) *Vector3 {
	if s == 0 {
		return v.Set(0, 0, 0)
	}
	return v.MultiplyScalar(1 / s)
}

func (v *Vector3) Negate() *Vector3 { return v.MultiplyScalar(-1) }

func (v *Vector3) Dot(o *Vector3) float64 {
	if o == nil {
		return 0
	}
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v *Vector3) Cross(o *Vector3) *Vector3 {
	if o == nil {
		return v
	}
	return v.Set(v.Y*o.Z-v.Z*o.Y, v.Z*o.X-v.X*o.Z, v.X*o.Y-v.Y*o.X)
}

func (v *Vector3) LengthSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v *Vector3) Length() float64   { return math.Sqrt(v.LengthSq()) }

func (v *Vector3) Normalize() *Vector3 { return v.DivideScalar(v.Length()) }

func (v *Vector3) SetLength(l float64) *Vector3 { return v.Normalize().MultiplyScalar(l) }

func (v *Vector3) DistanceTo(o *Vector3) float64 {
	if o == nil {
		return v.Length()
	}
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (v *Vector3) Lerp(o *Vector3, t float64) *Vector3 {
	if o == nil {
		return v
	}
	return v.Set(Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t))
}

// SetFromSphericalCoords uses the y-up convention: phi from +Y, theta around Y.
func (v *Vector3) SetFromSphericalCoords(radius, phi, theta float64) *Vector3 {
	s := math.Sin(phi) * radius
	return v.Set(s*math.Sin(theta), math.Cos(phi)*radius, s*math.Cos(theta))
}

func (v *Vector3) Equals(o *Vector3) bool { return o != nil && *v == *o }

// Vec converts to the rasterizer vector.
func (v *Vector3) Vec() Vec3 {
	if v == nil {
		return Vec3{}
	}
	return V3(Scalar(v.X), Scalar(v.Y), Scalar(v.Z))
}

// Euler is a rotation in radians applied in X, Y, Z order.
type Euler struct {
	X, Y, Z float64
}

func (e *Euler) Set(x, y, z float64) *Euler {
	e.X, e.Y, e.Z = x, y, z
	return e
}

func (e *Euler) Copy(o *Euler) *Euler {
	if o != nil {
		*e = *o
	}
	return e
}

func (e *Euler) Vec() Vec3 {
	if e == nil {
		return Vec3{}
	}
	return V3(Scalar(e.X), Scalar(e.Y), Scalar(e.Z))
}

// vectorArgs accepts either a *Vector3 or three numbers.
func vectorArgs(args []any) (Vector3, bool) {
	if len(args) == 1 {
		if v, ok := args[0].(*Vector3); ok && v != nil {
			return *v, true
		}
		return Vector3{}, false
	}
	if len(args) >= 3 {
		return Vector3{X: toFloat(args[0]), Y: toFloat(args[1]), Z: toFloat(args[2])}, true
	}
	return Vector3{}, false
}
