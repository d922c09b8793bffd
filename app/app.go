// Package app wires the engine to a HAL: each Step drains input, applies
// finished requests, renders one frame and draws the overlay.
package app

import (
	"log/slog"
	"time"
	"unicode"

	"axiom/engine/journal"
	"axiom/engine/lifecycle"
	"axiom/engine/mode"
	"axiom/engine/overlay"
	"axiom/engine/quarkgl"
	"axiom/engine/script"
	"axiom/engine/session"
	"axiom/engine/surface"
	"axiom/hal"
	"axiom/internal/llm"
)

// Config assembles a System.
type Config struct {
	Surface   surface.Config
	Budget    script.Budget
	Generator llm.Generator
	Logger    *slog.Logger
	// LogRing is how many journal events the overlay can show.
	LogRing int
	// Sinks receive every journal event in addition to the overlay ring.
	Sinks []journal.Sink
	// HideOverlay starts with the text layer off.
	HideOverlay bool
	// MaxPrompt bounds the prompt line in runes.
	MaxPrompt int
}

const (
	orbitStep = 0.08
	zoomStep  = 1.5
)

// System is driven by one goroutine, the HAL's frame driver.
type System struct {
	h       hal.HAL
	logger  *slog.Logger
	surf    *surface.Surface
	life    *lifecycle.Manager
	ctl     *session.Controller
	journal *journal.Journal
	ring    *journal.Ring
	overlay *overlay.Overlay

	showOverlay bool
	input       []rune
	maxPrompt   int
	target      quarkgl.RGB565Target
	fault       error
	closed      bool
}

// New builds a System drawing into h's framebuffer.
func New(h hal.HAL, cfg Config) *System {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gen := cfg.Generator
	if gen == nil {
		gen = llm.NewOfflineGenerator()
	}
	if cfg.MaxPrompt <= 0 {
		cfg.MaxPrompt = 240
	}

	ring := journal.NewRing(cfg.LogRing)
	j := journal.New(append([]journal.Sink{ring}, cfg.Sinks...)...)

	surfCfg := cfg.Surface
	if fb := h.Display().Framebuffer(); fb != nil {
		surfCfg.Width, surfCfg.Height = fb.Width(), fb.Height()
	}
	surf := surface.New(surfCfg, h.Time().Now)

	compiler := script.NewCompiler(surf.Port(),
		script.WithBudget(cfg.Budget),
		script.WithLogger(logger.With("component", "script")))
	life := lifecycle.New(compiler, surf.Port(),
		lifecycle.WithJournal(j),
		lifecycle.WithLogger(logger.With("component", "lifecycle")),
		lifecycle.WithClock(surf.Clock()))
	surf.Attach(life)

	ctl := session.New(gen, life,
		session.WithJournal(j),
		session.WithLogger(logger.With("component", "session")))

	s := &System{
		h:           h,
		logger:      logger,
		surf:        surf,
		life:        life,
		ctl:         ctl,
		journal:     j,
		ring:        ring,
		overlay:     overlay.New(),
		showOverlay: !cfg.HideOverlay,
		maxPrompt:   cfg.MaxPrompt,
	}
	j.System("System initialized. Awaiting input.")
	return s
}

func (s *System) Controller() *session.Controller { return s.ctl }
func (s *System) Surface() *surface.Surface       { return s.surf }
func (s *System) Lifecycle() *lifecycle.Manager   { return s.life }
func (s *System) Journal() *journal.Journal       { return s.journal }
func (s *System) Events() []journal.Event         { return s.ring.Snapshot() }
func (s *System) Input() string                   { return string(s.input) }
func (s *System) Fault() error                    { return s.fault }

// Submit sends prompt to the generator, as Enter does for typed input.
func (s *System) Submit(prompt string) error { return s.ctl.Submit(prompt) }

// Load installs program text without generation.
func (s *System) Load(p script.Program) error { return s.ctl.Load(p) }

// Step runs one frame. It is the function handed to the HAL runners.
func (s *System) Step() error {
	if s.closed {
		return hal.ErrStop
	}
	s.drainKeys()
	s.ctl.Pump()

	fb := s.h.Display().Framebuffer()
	if fb == nil {
		return nil
	}
	s.bind(fb)
	if s.fault != nil {
		s.drawFault()
		return fb.Present()
	}
	if err := frameGuard(func() error { return s.frame() }); err != nil {
		s.fail(err)
		s.drawFault()
	}
	return fb.Present()
}

func (s *System) frame() error {
	if err := s.surf.Frame(&s.target, s.ctl.Mode()); err != nil {
		return err
	}
	if !s.showOverlay {
		return nil
	}
	s.overlay.Draw(&s.target, overlay.View{
		Mode:        s.ctl.Mode(),
		Events:      s.ring.Tail(s.overlay.LogLines),
		Prompt:      string(s.input),
		Cursor:      s.surf.Frames()/15%2 == 0,
		Explanation: s.ctl.Explanation(),
		Stats:       s.surf.Stats(),
		ShowStats:   s.surf.Wireframe(),
	})
	return nil
}

// bind points the render target at the framebuffer and follows resizes.
func (s *System) bind(fb hal.Framebuffer) {
	w, h := fb.Width(), fb.Height()
	if sw, sh := s.surf.Size(); sw != w || sh != h {
		s.surf.Resize(w, h)
	}
	s.target = quarkgl.RGB565Target{Buf: fb.Buffer(), Stride: fb.StrideBytes(), W: w, H: h}
}

func (s *System) drainKeys() {
	in := s.h.Input()
	if in == nil || in.Keyboard() == nil {
		return
	}
	ch := in.Keyboard().Events()
	for {
		select {
		case ev := <-ch:
			s.HandleKey(ev)
		default:
			return
		}
	}
}

// HandleKey applies one key event.
func (s *System) HandleKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	if ev.Code == hal.KeyUnknown {
		if ev.Rune != 0 && unicode.IsPrint(ev.Rune) && len(s.input) < s.maxPrompt {
			s.input = append(s.input, ev.Rune)
		}
		return
	}
	switch ev.Code {
	case hal.KeyEnter:
		s.submitInput()
	case hal.KeyBackspace:
		if n := len(s.input); n > 0 {
			s.input = s.input[:n-1]
		}
	case hal.KeyEscape, hal.KeyDelete:
		s.input = s.input[:0]
	case hal.KeyF1:
		if err := s.ctl.TogglePause(); err != nil {
			s.logger.Debug("pause ignored", "error", err)
		}
	case hal.KeyF2:
		s.fault = nil
		s.ctl.Reset()
	case hal.KeyF3:
		s.surf.SetWireframe(!s.surf.Wireframe())
	case hal.KeyTab:
		s.showOverlay = !s.showOverlay
	case hal.KeyLeft:
		s.surf.Controls().Rotate(orbitStep, 0)
	case hal.KeyRight:
		s.surf.Controls().Rotate(-orbitStep, 0)
	case hal.KeyUp:
		s.surf.Controls().Rotate(0, orbitStep)
	case hal.KeyDown:
		s.surf.Controls().Rotate(0, -orbitStep)
	case hal.KeyPageUp:
		s.surf.Controls().Zoom(-zoomStep)
	case hal.KeyPageDown:
		s.surf.Controls().Zoom(zoomStep)
	}
}

func (s *System) submitInput() {
	prompt := string(s.input)
	switch err := s.ctl.Submit(prompt); err {
	case nil:
		s.input = s.input[:0]
	case session.ErrEmptyPrompt:
	case session.ErrBusy:
		s.journal.System("Still working on the previous request.")
	default:
		s.journal.Error(err.Error())
	}
}

// Close tears down the installed module and stops background work.
func (s *System) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.ctl.Close()
	s.life.Teardown()
	return s.surf.Close()
}

// Wait pumps the controller until it leaves Loading or timeout passes.
// Headless callers use it to settle a request before counting frames.
func (s *System) Wait(timeout time.Duration) mode.State {
	deadline := time.Now().Add(timeout)
	for s.ctl.Busy() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
		s.ctl.Pump()
	}
	return s.ctl.Mode()
}
