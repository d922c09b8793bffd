// Package lifecycle owns the installed scene module and swaps it for a new
// one without stopping the frame loop.
package lifecycle

import (
	"errors"
	"log/slog"

	"axiom/engine/guard"
	"axiom/engine/journal"
	"axiom/engine/port"
	"axiom/engine/quarkgl"
	"axiom/engine/script"
)

// Compiler is the part of script.Compiler the manager needs.
type Compiler interface {
	Compile(script.Program) (script.Module, error)
}

// Resetter restarts the frame clock when a module is installed.
type Resetter interface {
	Reset()
}

// State is the slot state of the manager.
type State uint8

const (
	Empty State = iota
	Installed
	Failed
)

func (s State) String() string {
	switch s {
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	default:
		return "empty"
	}
}

// SwapResult reports what one swap did.
type SwapResult struct {
	Program script.Program
	// Err is the compile error, if the new program failed.
	Err error
	// Cleaned is true when an old module's cleanup ran.
	Cleaned    bool
	CleanupErr error
	// Swept is the number of nodes detached from the root.
	Swept int
	// Disposed counts resources released by the sweep and the old ledger.
	Disposed int
	// Nodes is the node count under the root after the swap.
	Nodes int
}

// Manager holds at most one installed module. It must only be used from
// the frame goroutine.
type Manager struct {
	compiler Compiler
	port     *port.ScenePort
	clock    Resetter
	journal  *journal.Journal
	logger   *slog.Logger

	module  script.Module
	state   State
	demoted bool
	swaps   int
}

type Option func(*Manager)

func WithJournal(j *journal.Journal) Option { return func(m *Manager) { m.journal = j } }
func WithLogger(l *slog.Logger) Option      { return func(m *Manager) { m.logger = l } }
func WithClock(c Resetter) Option           { return func(m *Manager) { m.clock = c } }

func New(c Compiler, p *port.ScenePort, opts ...Option) *Manager {
	m := &Manager{compiler: c, port: p}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

func (m *Manager) State() State { return m.state }

// Module returns the installed module, or nil.
func (m *Manager) Module() script.Module { return m.module }

// Demoted reports whether the installed module's update has been disabled.
func (m *Manager) Demoted() bool { return m.demoted }

// Swaps returns the number of completed swaps.
func (m *Manager) Swaps() int { return m.swaps }

// Swap tears down the installed module and installs p in its place.
//
// The old module's cleanup always runs before p's setup. If p fails to
// compile the root is left empty and the manager is Failed.
func (m *Manager) Swap(p script.Program) SwapResult {
	res := SwapResult{Program: p}
	m.swaps++

	var oldLedger *quarkgl.Ledger
	if old := m.module; old != nil {
		oldLedger = old.Ledger()
		res.Cleaned = true
		res.CleanupErr = guard.Call(old.Cleanup)
		if res.CleanupErr != nil {
			m.journal.Systemf("Cleanup failed: %s", message(res.CleanupErr))
			m.logger.Warn("module cleanup failed", "program", old.Program().ID, "error", res.CleanupErr)
		}
	}
	m.module = nil
	m.demoted = false

	res.Swept, res.Disposed = m.sweep(oldLedger)

	mod, err := m.compiler.Compile(p)
	if err != nil {
		res.Err = err
		var ce *script.CompileError
		if errors.As(err, &ce) {
			_, n := m.sweep(ce.Ledger)
			res.Disposed += n
		} else {
			m.sweep(nil)
		}
		m.state = Failed
		m.logger.Info("swap failed", "program", p.ID, "error", err)
		return res
	}

	m.module = mod
	m.state = Installed
	if m.clock != nil {
		m.clock.Reset()
	}
	res.Nodes = quarkgl.Count(m.port.Root)
	m.logger.Info("module installed", "program", p.ID, "nodes", res.Nodes, "resources", mod.Ledger().Len())
	return res
}

// sweep restores the port, detaches everything under the root or hung on
// the camera and disposes it, then releases whatever the ledger still holds.
func (m *Manager) sweep(ledger *quarkgl.Ledger) (nodes, disposed int) {
	strays := m.port.Restore()
	for _, child := range append(m.port.Root.Clear(), strays...) {
		if child == nil || child.Object() == m.port.Root.Object() {
			continue
		}
		nodes += 1 + quarkgl.Count(child)
		disposed += quarkgl.DisposeTree(child)
	}
	disposed += ledger.Release()
	return nodes, disposed
}

// Tick runs the installed module's update. A failing update is reported
// once and demoted to a no-op; it reports whether the update ran cleanly.
func (m *Manager) Tick(elapsed, delta float64) bool {
	if m.module == nil || m.demoted {
		return false
	}
	if err := guard.Call(func() error { return m.module.Update(elapsed, delta) }); err != nil {
		m.demoted = true
		m.journal.Errorf("Runtime error: %s", message(err))
		m.logger.Warn("module update failed", "program", m.module.Program().ID, "elapsed", elapsed, "error", err)
		return false
	}
	return true
}

// Teardown swaps in the empty program and leaves the slot Empty.
func (m *Manager) Teardown() SwapResult {
	res := m.Swap(script.Program{})
	m.module = nil
	m.state = Empty
	return res
}

func message(err error) string {
	var re *script.RuntimeError
	if errors.As(err, &re) {
		msg := re.Message
		if re.Hint != "" {
			msg += " (" + re.Hint + ")"
		}
		return msg
	}
	var pe *guard.PanicError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return err.Error()
}
