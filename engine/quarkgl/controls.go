package quarkgl

import "math"

// OrbitController orbits a camera around a target with damped motion.
//
// Each Update re-derives the orbit from the camera's current position, so
// programs that move the camera directly keep their placement.
type OrbitController struct {
	Target Vec3

	MinRadius Scalar
	MaxRadius Scalar
	// Damping is the fraction of velocity removed per update, in 0..1.
	// Zero applies input immediately.
	Damping Scalar

	yawVel   Scalar
	pitchVel Scalar
	zoomVel  Scalar
}

// maxPitch keeps the camera off the poles.
const maxPitch = Scalar(math.Pi/2 - 0.01)

func (c *OrbitController) Rotate(deltaYaw, deltaPitch Scalar) {
	c.yawVel += deltaYaw
	c.pitchVel += deltaPitch
}

func (c *OrbitController) Zoom(delta Scalar) {
	c.zoomVel += delta
}

// Moving reports whether any velocity remains.
func (c *OrbitController) Moving() bool {
	const eps = 1e-5
	return abs32(c.yawVel) > eps || abs32(c.pitchVel) > eps || abs32(c.zoomVel) > eps
}

// Update applies pending motion to cam and aims it at Target.
func (c *OrbitController) Update(cam *PerspectiveCamera) {
	if cam == nil {
		return
	}
	offset := cam.Position.Vec().Sub(c.Target)
	r := Len(offset)
	if r == 0 {
		r = 1
		offset = V3(0, 0, 1)
	}
	yaw := Scalar(math.Atan2(float64(offset.X), float64(offset.Z)))
	sinPitch := float64(offset.Y / r)
	pitch := Scalar(math.Asin(math.Max(-1, math.Min(1, sinPitch))))

	yaw += c.yawVel
	pitch += c.pitchVel
	r += c.zoomVel
	if pitch > maxPitch {
		pitch = maxPitch
	}
	if pitch < -maxPitch {
		pitch = -maxPitch
	}
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	if r < 0.01 {
		r = 0.01
	}

	if c.Damping > 0 && c.Damping < 1 {
		keep := 1 - c.Damping
		c.yawVel *= keep
		c.pitchVel *= keep
		c.zoomVel *= keep
	} else {
		c.yawVel, c.pitchVel, c.zoomVel = 0, 0, 0
	}

	cp := Scalar(math.Cos(float64(pitch)))
	p := c.Target.Add(V3(
		r*cp*Scalar(math.Sin(float64(yaw))),
		r*Scalar(math.Sin(float64(pitch))),
		r*cp*Scalar(math.Cos(float64(yaw))),
	))
	cam.Position.Set(float64(p.X), float64(p.Y), float64(p.Z))
	cam.SetTarget(c.Target)
}

func abs32(v Scalar) Scalar {
	if v < 0 {
		return -v
	}
	return v
}
