// Package session connects prompts to the scene slot: it runs generation in
// the background and applies finished programs at the start of a frame.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"axiom/engine/journal"
	"axiom/engine/lifecycle"
	"axiom/engine/mode"
	"axiom/engine/script"
	"axiom/internal/llm"
)

var (
	// ErrBusy is returned by Submit while a request is in flight.
	ErrBusy        = errors.New("session: busy")
	ErrEmptyPrompt = errors.New("session: empty prompt")
	ErrClosed      = errors.New("session: closed")
)

// Swapper installs programs. *lifecycle.Manager implements it.
type Swapper interface {
	Swap(script.Program) lifecycle.SwapResult
}

type outcome struct {
	seq    uint64
	prompt string
	res    llm.Result
	err    error
}

type pendingSwap struct {
	seq     uint64
	program script.Program
	reset   bool
}

// Controller owns the mode machine. Every method except Close must be
// called from the frame goroutine; generation runs on its own goroutine
// and is handed back through Pump.
type Controller struct {
	gen     llm.Generator
	slot    Swapper
	machine *mode.Machine
	journal *journal.Journal
	logger  *slog.Logger

	ctx     context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
	results chan outcome

	seq         uint64
	cancel      context.CancelFunc
	pending     []pendingSwap
	current     script.Program
	explanation string
	closed      bool
}

type Option func(*Controller)

func WithJournal(j *journal.Journal) Option { return func(c *Controller) { c.journal = j } }
func WithLogger(l *slog.Logger) Option      { return func(c *Controller) { c.logger = l } }

func New(gen llm.Generator, slot Swapper, opts ...Option) *Controller {
	ctx, stop := context.WithCancel(context.Background())
	c := &Controller{
		gen:     gen,
		slot:    slot,
		machine: mode.New(),
		ctx:     ctx,
		stop:    stop,
		results: make(chan outcome, 8),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.machine.OnChange(func(from, to mode.State, ev mode.Event) {
		c.logger.Debug("mode", "from", from, "to", to, "event", ev)
	})
	return c
}

func (c *Controller) Mode() mode.State { return c.machine.State() }

// Program returns the last program handed to the slot.
func (c *Controller) Program() script.Program { return c.current }

// Explanation returns the generator's description of the running program.
func (c *Controller) Explanation() string { return c.explanation }

// Busy reports whether a request is being generated or compiled.
func (c *Controller) Busy() bool { return c.machine.State() == mode.Loading }

// Submit starts generating a program for prompt.
func (c *Controller) Submit(prompt string) error {
	if c.closed {
		return ErrClosed
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}
	if err := c.request(); err != nil {
		return err
	}
	c.journal.Infof("Processing input: %q", prompt)
	c.journal.System("Generating scene program...")

	seq := c.seq
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.gen.Generate(ctx, prompt)
		select {
		case c.results <- outcome{seq: seq, prompt: prompt, res: res, err: err}:
		case <-c.ctx.Done():
		}
	}()
	return nil
}

// Load installs program text directly, bypassing the generator.
func (c *Controller) Load(p script.Program) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.request(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c.journal.Infof("Loading program %s", p.ID)
	c.pending = append(c.pending, pendingSwap{seq: c.seq, program: p})
	return nil
}

func (c *Controller) request() error {
	if err := c.machine.Fire(mode.Request); err != nil {
		if c.machine.State() == mode.Loading {
			return ErrBusy
		}
		return err
	}
	c.seq++
	c.abort()
	return nil
}

// abort cancels the in-flight generation, if any.
func (c *Controller) abort() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Pump applies finished generations and queued swaps. Call it once at the
// start of every frame.
func (c *Controller) Pump() {
	for {
		select {
		case o := <-c.results:
			c.resolve(o)
			continue
		default:
		}
		break
	}
	for len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		c.apply(p)
	}
}

func (c *Controller) resolve(o outcome) {
	if o.seq != c.seq {
		c.journal.Systemf("Discarded stale result for %q", o.prompt)
		return
	}
	c.abort()
	if o.err != nil {
		c.journal.Error(o.err.Error())
		c.fire(mode.Failed)
		return
	}
	c.journal.Success("Code generation successful.")
	if o.res.Explanation != "" {
		c.journal.Info(o.res.Explanation)
	}
	c.journal.System("Compiling scene module...")
	c.pending = append(c.pending, pendingSwap{
		seq: o.seq,
		program: script.Program{
			ID:          uuid.NewString(),
			Prompt:      o.prompt,
			Source:      o.res.Code,
			Explanation: o.res.Explanation,
		},
	})
}

func (c *Controller) apply(p pendingSwap) {
	if p.seq != c.seq && !p.reset {
		return
	}
	res := c.slot.Swap(p.program)
	c.current = p.program
	if p.reset {
		c.explanation = ""
		return
	}
	if res.Err != nil {
		c.journal.Errorf("Compile error: %s", res.Err)
		c.fire(mode.Failed)
		return
	}
	c.explanation = p.program.Explanation
	c.fire(mode.Installed)
	c.journal.Success("Simulation running. Render loop active.")
}

func (c *Controller) fire(ev mode.Event) {
	if err := c.machine.Fire(ev); err != nil {
		c.logger.Warn("mode transition rejected", "error", err)
	}
}

// Pause freezes the running simulation.
func (c *Controller) Pause() error {
	if err := c.machine.Fire(mode.Pause); err != nil {
		return err
	}
	c.journal.System("Simulation paused.")
	return nil
}

func (c *Controller) Resume() error {
	if err := c.machine.Fire(mode.Resume); err != nil {
		return err
	}
	c.journal.System("Simulation resumed.")
	return nil
}

// TogglePause pauses an Active session or resumes a Paused one.
func (c *Controller) TogglePause() error {
	switch c.machine.State() {
	case mode.Active:
		return c.Pause()
	case mode.Paused:
		return c.Resume()
	}
	return fmt.Errorf("%w: nothing to pause in %s", mode.ErrIllegalTransition, c.machine.State())
}

// Reset abandons any request in flight and clears the scene on the next Pump.
func (c *Controller) Reset() {
	c.seq++
	c.abort()
	c.pending = []pendingSwap{{seq: c.seq, program: script.Program{ID: "reset"}, reset: true}}
	c.fire(mode.Reset)
	c.journal.System("System reset.")
}

// Close cancels generation and waits for background work to finish.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.stop()
	c.wg.Wait()
}
