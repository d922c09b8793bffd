// Package port defines the capability surface handed to scene programs.
package port

import (
	"axiom/engine/quarkgl"
)

// ScenePort is everything a scene program may touch: the simulation root,
// the shared camera and a narrow renderer handle. The graphics namespace is
// built per program by the compiler on top of these.
type ScenePort struct {
	Root     *quarkgl.Group
	Camera   *quarkgl.PerspectiveCamera
	Renderer *RendererHandle

	cameraDefaults cameraState
	rootDefaults   rootState
}

// rootState is how the root looked when the port was built, including the
// node it hangs from in the rendered world.
type rootState struct {
	home     quarkgl.Node
	name     string
	position quarkgl.Vector3
	rotation quarkgl.Euler
	scale    quarkgl.Vector3
	visible  bool
}

type cameraState struct {
	fov, near, far float64
	position       quarkgl.Vector3
	target         quarkgl.Vec3
}

// New wraps the given root, camera and renderer.
func New(root *quarkgl.Group, cam *quarkgl.PerspectiveCamera, r *quarkgl.Renderer) *ScenePort {
	p := &ScenePort{Root: root, Camera: cam, Renderer: newRendererHandle(r)}
	p.cameraDefaults = cameraState{
		fov:      cam.Fov,
		near:     cam.Near,
		far:      cam.Far,
		position: *cam.Position,
		target:   cam.Target(),
	}
	p.rootDefaults = rootState{
		home:     root.Parent(),
		name:     root.Name,
		position: *root.Position,
		rotation: *root.Rotation,
		scale:    *root.Scale,
		visible:  root.Visible,
	}
	return p
}

// Restore undoes root, camera and renderer changes made by a previous
// program. The root goes back under its original parent with its original
// transform. Nodes the program hung on the camera are detached and returned
// so the caller can dispose them. The camera keeps its aspect, which belongs
// to the surface.
func (p *ScenePort) Restore() []quarkgl.Node {
	r := p.rootDefaults
	if r.home != nil && p.Root.Parent() != r.home {
		p.Root.RemoveFromParent()
		r.home.Object().Add(p.Root)
	}
	p.Root.Name = r.name
	p.Root.Position = ptr(r.position)
	p.Root.Rotation = ptr(r.rotation)
	p.Root.Scale = ptr(r.scale)
	p.Root.Visible = r.visible
	p.Root.UserData = make(map[string]any)
	p.Root.Fog = nil

	d := p.cameraDefaults
	p.Camera.Fov, p.Camera.Near, p.Camera.Far = d.fov, d.near, d.far
	p.Camera.Position = ptr(d.position)
	p.Camera.Rotation = &quarkgl.Euler{}
	p.Camera.Scale = &quarkgl.Vector3{X: 1, Y: 1, Z: 1}
	p.Camera.Up = &quarkgl.Vector3{Y: 1}
	p.Camera.SetTarget(d.target)
	p.Camera.RemoveFromParent()
	strays := p.Camera.Clear()

	p.Renderer.restore()
	return strays
}

func ptr[T any](v T) *T { return &v }

// RendererHandle exposes the renderer settings programs commonly adjust.
type RendererHandle struct {
	// ShadowMap is accepted and ignored; the renderer draws no shadows.
	ShadowMap *ShadowMap

	r          *quarkgl.Renderer
	clearColor quarkgl.Color
}

type ShadowMap struct {
	Enabled bool
	Type    int
}

func newRendererHandle(r *quarkgl.Renderer) *RendererHandle {
	return &RendererHandle{r: r, clearColor: r.ClearColor, ShadowMap: &ShadowMap{}}
}

// SetClearColor accepts any color value and an optional alpha, which is ignored.
func (h *RendererHandle) SetClearColor(c any, _ ...float64) {
	if parsed, ok := quarkgl.ParseColor(c); ok {
		h.r.ClearColor = parsed.Pixel(1)
	}
}

// GetClearColor returns a copy of the current clear color.
func (h *RendererHandle) GetClearColor() *quarkgl.ColorRGB {
	c := h.r.ClearColor
	return &quarkgl.ColorRGB{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// SetPixelRatio and SetSize are accepted for compatibility; the surface owns sizing.
func (h *RendererHandle) SetPixelRatio(float64)           {}
func (h *RendererHandle) SetSize(_, _ float64, _ ...bool) {}

// Info reports what the last frame drew.
func (h *RendererHandle) Info() map[string]int {
	s := h.r.Stats
	return map[string]int{
		"triangles": s.Triangles,
		"points":    s.Points,
		"lines":     s.Segments,
		"objects":   s.Nodes,
	}
}

func (h *RendererHandle) restore() {
	h.r.ClearColor = h.clearColor
	h.ShadowMap = &ShadowMap{}
}
