package script

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"axiom/engine/guard"
	"axiom/engine/quarkgl"
)

// Program is one generated scene program.
type Program struct {
	ID          string
	Prompt      string
	Source      string
	Explanation string
}

// Module is a live scene program: an optional per-frame update and an
// optional cleanup, plus the ledger of resources its setup allocated.
type Module interface {
	Update(elapsed, delta float64) error
	Cleanup() error
	Ledger() *quarkgl.Ledger
	Program() Program
	// Animated reports whether the program returned an update function.
	Animated() bool
}

// ErrInterrupted is wrapped by errors from calls that exceeded their budget.
var ErrInterrupted = errors.New("script: time budget exceeded")

// CompileError reports a program that could not be turned into a module.
// Ledger holds whatever the failed setup allocated.
type CompileError struct {
	Program string
	Message string
	Hint    string
	Ledger  *quarkgl.Ledger
	Err     error
}

func (e *CompileError) Error() string {
	if e.Hint != "" {
		return e.Message + " (" + e.Hint + ")"
	}
	return e.Message
}

func (e *CompileError) Unwrap() error { return e.Err }

// RuntimeError reports a failure inside update or cleanup.
type RuntimeError struct {
	Phase   string
	Message string
	Hint    string
	Err     error
}

func (e *RuntimeError) Error() string {
	msg := e.Phase + ": " + e.Message
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Budget bounds the wall-clock time of each call into a program.
// A zero duration disables the bound for that phase.
type Budget struct {
	Setup   time.Duration
	Update  time.Duration
	Cleanup time.Duration
}

// DefaultBudget is used when a compiler is built without WithBudget.
var DefaultBudget = Budget{
	Setup:   2 * time.Second,
	Update:  250 * time.Millisecond,
	Cleanup: time.Second,
}

type noopModule struct {
	program Program
	ledger  *quarkgl.Ledger
}

func (m *noopModule) Update(float64, float64) error { return nil }
func (m *noopModule) Cleanup() error                { return nil }
func (m *noopModule) Ledger() *quarkgl.Ledger       { return m.ledger }
func (m *noopModule) Program() Program              { return m.program }
func (m *noopModule) Animated() bool                { return false }

type jsModule struct {
	program Program
	vm      *goja.Runtime
	update  goja.Callable
	cleanup goja.Callable
	ledger  *quarkgl.Ledger
	budget  Budget
	hints   *hinter
}

func (m *jsModule) Ledger() *quarkgl.Ledger { return m.ledger }
func (m *jsModule) Program() Program        { return m.program }
func (m *jsModule) Animated() bool          { return m.update != nil }

func (m *jsModule) Update(elapsed, delta float64) error {
	if m.update == nil {
		return nil
	}
	err := callWithBudget(m.vm, m.budget.Update, func() error {
		_, err := m.update(goja.Undefined(), m.vm.ToValue(elapsed), m.vm.ToValue(delta))
		return err
	})
	return m.runtimeError("update", err)
}

func (m *jsModule) Cleanup() error {
	if m.cleanup == nil {
		return nil
	}
	err := callWithBudget(m.vm, m.budget.Cleanup, func() error {
		_, err := m.cleanup(goja.Undefined())
		return err
	})
	return m.runtimeError("cleanup", err)
}

func (m *jsModule) runtimeError(phase string, err error) error {
	if err == nil {
		return nil
	}
	msg := describe(err)
	return &RuntimeError{Phase: phase, Message: msg, Hint: m.hints.hint(msg), Err: err}
}

// bind picks update and cleanup off the setup result. Anything that is not
// an object with callable members leaves them nil.
func (m *jsModule) bind(result goja.Value) {
	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return
	}
	obj, ok := result.(*goja.Object)
	if !ok {
		return
	}
	if fn, ok := goja.AssertFunction(obj.Get("update")); ok {
		m.update = fn
	}
	if fn, ok := goja.AssertFunction(obj.Get("cleanup")); ok {
		m.cleanup = fn
	}
}

// callWithBudget runs fn under guard, interrupting vm if it runs past budget.
func callWithBudget(vm *goja.Runtime, budget time.Duration, fn func() error) error {
	if budget <= 0 {
		return guard.Call(fn)
	}
	var (
		mu       sync.Mutex
		finished bool
	)
	timer := time.AfterFunc(budget, func() {
		mu.Lock()
		defer mu.Unlock()
		if !finished {
			vm.Interrupt(ErrInterrupted)
		}
	})
	defer func() {
		mu.Lock()
		finished = true
		mu.Unlock()
		timer.Stop()
		vm.ClearInterrupt()
	}()
	err := guard.Call(fn)
	var intr *goja.InterruptedError
	if errors.As(err, &intr) {
		return fmt.Errorf("%w after %s", ErrInterrupted, budget)
	}
	return err
}

// describe renders an interpreter error the way a script author reads it.
func describe(err error) string {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		if v := ex.Value(); v != nil {
			return v.String()
		}
		return ex.Error()
	}
	var syn *goja.CompilerSyntaxError
	if errors.As(err, &syn) {
		return "SyntaxError: " + syn.Message
	}
	var pe *guard.PanicError
	if errors.As(err, &pe) {
		return fmt.Sprintf("internal error: %v", pe.Value)
	}
	return err.Error()
}
