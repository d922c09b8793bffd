// Package surface owns everything that draws a frame: renderer, camera,
// orbit controls, frame clock and the placeholder visuals shown while no
// simulation is running.
package surface

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"axiom/engine/clock"
	"axiom/engine/mode"
	"axiom/engine/port"
	"axiom/engine/quarkgl"
)

// ErrClosed is returned by Frame after Close.
var ErrClosed = errors.New("surface: closed")

// Fade rates per frame, as lerp fractions.
const (
	fadeRate  = 0.05
	scaleRate = 0.08
)

// Ticker runs the installed module for one frame.
type Ticker interface {
	Tick(elapsed, delta float64) bool
}

type Config struct {
	Width, Height int
	ClearColor    quarkgl.Color
	Depth         bool
	Wireframe     bool
	// StarCount is the size of the idle starfield.
	StarCount int
	Seed      uint64
}

func DefaultConfig() Config {
	return Config{
		Width:      320,
		Height:     240,
		ClearColor: quarkgl.RGB(0x05, 0x06, 0x0c),
		Depth:      true,
		StarCount:  2000,
	}
}

// Surface is driven by one goroutine, the frame driver's.
type Surface struct {
	cfg Config

	renderer *quarkgl.Renderer
	camera   *quarkgl.PerspectiveCamera
	controls *quarkgl.OrbitController
	clock    *clock.FrameClock
	port     *port.ScenePort

	world    *quarkgl.Scene
	idle     *quarkgl.Group
	paused   *quarkgl.Group
	sim      *quarkgl.Group
	starMat  *quarkgl.Material
	pauseMat *quarkgl.Material
	props    *quarkgl.Ledger
	simScale float64

	ticker Ticker
	width  int
	height int
	frames uint64
	closed bool
}

// New builds a surface whose clock reads now.
func New(cfg Config, now func() time.Duration) *Surface {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		d := DefaultConfig()
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	s := &Surface{
		cfg:      cfg,
		renderer: quarkgl.NewRenderer(cfg.Width, cfg.Height, cfg.Depth),
		camera:   quarkgl.NewPerspectiveCamera(60, float64(cfg.Width)/float64(cfg.Height), 0.1, 1000),
		controls: &quarkgl.OrbitController{MinRadius: 1, MaxRadius: 200, Damping: 0.1},
		clock:    clock.New(now),
		world:    quarkgl.NewScene(),
		props:    quarkgl.NewLedger(),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	s.renderer.ClearColor = cfg.ClearColor
	s.SetWireframe(cfg.Wireframe)
	s.camera.Position.Set(0, 5, 15)
	s.camera.LookAt(0, 0, 0)

	s.idle = s.starfield(cfg.StarCount, cfg.Seed)
	s.paused = s.pauseMarker()
	s.sim = quarkgl.NewGroup()
	s.sim.Name = "simulation"
	s.sim.Scale.SetScalar(0)
	s.sim.Visible = false
	s.world.Add(s.idle, s.paused, s.sim)

	s.port = port.New(s.sim, s.camera, s.renderer)
	return s
}

func (s *Surface) starfield(n int, seed uint64) *quarkgl.Group {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pos := make([]float32, 0, n*3)
	for i := 0; i < n; i++ {
		r := 40 + rng.Float64()*60
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		var v quarkgl.Vector3
		v.SetFromSphericalCoords(r, phi, theta)
		pos = append(pos, float32(v.X), float32(v.Y), float32(v.Z))
	}
	geo := quarkgl.NewBufferGeometry()
	geo.SetAttribute("position", quarkgl.NewBufferAttribute(pos, 3))
	s.starMat = quarkgl.NewMaterial("PointsMaterial")
	s.starMat.Color.SetHex(0xffffff)
	s.starMat.Size = 1
	s.starMat.SizeAttenuation = false
	s.starMat.Transparent = true
	s.starMat.Opacity = 1
	s.props.Track(geo)
	s.props.Track(s.starMat)

	g := quarkgl.NewGroup()
	g.Name = "idle"
	g.Add(quarkgl.NewPoints(geo, s.starMat))
	return g
}

func (s *Surface) pauseMarker() *quarkgl.Group {
	outer := quarkgl.NewIcosahedronGeometry(3, 1)
	inner := quarkgl.NewIcosahedronGeometry(1.5, 0)
	s.pauseMat = quarkgl.NewMaterial("MeshBasicMaterial")
	s.pauseMat.Color.SetHex(0x00ffcc)
	s.pauseMat.Wireframe = true
	s.pauseMat.Transparent = true
	s.pauseMat.Opacity = 0
	for _, d := range []quarkgl.Disposable{outer, inner, s.pauseMat} {
		s.props.Track(d)
	}

	g := quarkgl.NewGroup()
	g.Name = "paused"
	g.Visible = false
	g.Add(quarkgl.NewMesh(outer, s.pauseMat), quarkgl.NewMesh(inner, s.pauseMat))
	return g
}

// Attach sets the module ticker run on Active frames.
func (s *Surface) Attach(t Ticker) { s.ticker = t }

func (s *Surface) Port() *port.ScenePort              { return s.port }
func (s *Surface) Clock() *clock.FrameClock           { return s.clock }
func (s *Surface) Controls() *quarkgl.OrbitController { return s.controls }
func (s *Surface) Camera() *quarkgl.PerspectiveCamera { return s.camera }
func (s *Surface) Frames() uint64                     { return s.frames }
func (s *Surface) Stats() quarkgl.Stats               { return s.renderer.Stats }
func (s *Surface) Size() (w, h int)                   { return s.width, s.height }

func (s *Surface) Wireframe() bool { return s.renderer.Mode == quarkgl.RenderWireframe }

func (s *Surface) SetWireframe(on bool) {
	if on {
		s.renderer.SetRenderMode(quarkgl.RenderWireframe)
		return
	}
	s.renderer.SetRenderMode(quarkgl.RenderSolidFlat)
}

// Frame advances time, runs the module when Active and renders into t.
func (s *Surface) Frame(t quarkgl.Target, st mode.State) error {
	if s.closed {
		return ErrClosed
	}
	if st == mode.Paused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
	}
	elapsed, delta := s.clock.Advance()

	s.controls.Update(s.camera)
	s.animate(st, delta)

	if st == mode.Active && s.ticker != nil {
		s.ticker.Tick(elapsed, delta)
	}

	s.renderer.Render(t, s.world, s.camera)
	s.frames++
	return nil
}

// animate cross-fades the placeholders and grows the simulation in or out.
func (s *Surface) animate(st mode.State, delta float64) {
	running := st == mode.Active || st == mode.Paused

	starTarget, pauseTarget, scaleTarget := 1.0, 0.0, 0.0
	if running {
		starTarget, scaleTarget = 0, 1
	}
	if st == mode.Paused {
		pauseTarget = 1
	}

	s.starMat.Opacity = approach(s.starMat.Opacity, starTarget, fadeRate)
	s.idle.Visible = s.starMat.Opacity > 0.01
	s.idle.Rotation.Y += 0.02 * delta

	s.pauseMat.Opacity = approach(s.pauseMat.Opacity, pauseTarget, fadeRate)
	s.paused.Visible = s.pauseMat.Opacity > 0.01
	s.paused.Rotation.X += 0.01
	s.paused.Rotation.Y += 0.015

	s.simScale = approach(s.simScale, scaleTarget, scaleRate)
	if s.sim.Scale == nil {
		s.sim.Scale = &quarkgl.Vector3{}
	}
	s.sim.Scale.SetScalar(s.simScale)
	s.sim.Visible = s.simScale > 0.001
}

// approach lerps v toward target and snaps once within a small epsilon.
func approach(v, target, rate float64) float64 {
	v = quarkgl.Lerp(v, target, rate)
	if math.Abs(v-target) < 1e-3 {
		return target
	}
	return v
}

// Resize follows the viewport. It touches neither the mode nor the module.
func (s *Surface) Resize(w, h int) {
	if w <= 0 || h <= 0 || s.closed {
		return
	}
	s.width, s.height = w, h
	s.camera.Aspect = float64(w) / float64(h)
	s.camera.UpdateProjectionMatrix()
	s.renderer.EnableDepth(s.cfg.Depth, w, h)
}

// Close releases the placeholder resources and the renderer buffers. It is
// safe to call more than once.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.world.Remove(s.idle, s.paused)
	s.props.Release()
	s.renderer.EnableDepth(false, 0, 0)
	s.ticker = nil
	return nil
}
