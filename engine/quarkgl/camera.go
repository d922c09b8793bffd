package quarkgl

import "math"

// Camera is the raster-level view description consumed by the Renderer.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad Scalar
	Near    Scalar
	Far     Scalar
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return Mat4LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect Scalar) Mat4 {
	fov := c.FOVYRad
	if fov == 0 {
		fov = Scalar(1.0)
	}
	return Mat4Perspective(fov, aspect, c.Near, c.Far)
}

// PerspectiveCamera is the scene-facing camera. Fov is in degrees.
type PerspectiveCamera struct {
	Object3D
	Fov    float64
	Aspect float64
	Near   float64
	Far    float64
	Up     *Vector3

	target Vector3
}

func NewPerspectiveCamera(fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{Fov: fov, Aspect: aspect, Near: near, Far: far, Up: &Vector3{Y: 1}}
	c.init(c, "PerspectiveCamera")
	return c
}

// LookAt points the camera at a vector or x, y, z.
func (c *PerspectiveCamera) LookAt(args ...any) {
	if p, ok := vectorArgs(args); ok {
		c.target = p
	}
}

// UpdateProjectionMatrix exists for program compatibility; projection is
// derived from the fields on every frame.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {}

// Target returns the point the camera looks at.
func (c *PerspectiveCamera) Target() Vec3 { return c.target.Vec() }

func (c *PerspectiveCamera) SetTarget(v Vec3) {
	c.target = Vector3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Snapshot converts the camera into its raster description.
func (c *PerspectiveCamera) Snapshot() Camera {
	near, far := c.Near, c.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 1000
	}
	fov := c.Fov
	if fov <= 0 || fov >= 180 {
		fov = 75
	}
	return Camera{
		Position: c.Position.Vec(),
		Target:   c.Target(),
		Up:       c.Up.Vec(),
		FOVYRad:  Scalar(fov * math.Pi / 180),
		Near:     Scalar(near),
		Far:      Scalar(far),
	}
}
