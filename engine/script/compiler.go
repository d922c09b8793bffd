// Package script compiles generated scene programs into live modules.
//
// A program is JavaScript evaluated by goja as the body of
//
//	function (THREE, scene, camera, renderer) { ... }
//
// It may return an object with update(elapsed, delta) and cleanup() members.
package script

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"axiom/engine/port"
	"axiom/engine/quarkgl"
)

const maxCallStack = 1024

// Compiler turns program text into modules bound to one ScenePort.
type Compiler struct {
	port   *port.ScenePort
	budget Budget
	random func() float64
	logger *slog.Logger
}

type Option func(*Compiler)

func WithBudget(b Budget) Option { return func(c *Compiler) { c.budget = b } }

// WithRandom replaces the source behind Math.random and MathUtils.
func WithRandom(fn func() float64) Option { return func(c *Compiler) { c.random = fn } }

func WithLogger(l *slog.Logger) Option { return func(c *Compiler) { c.logger = l } }

func NewCompiler(p *port.ScenePort, opts ...Option) *Compiler {
	c := &Compiler{port: p, budget: DefaultBudget}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Compile evaluates the program's setup against the live scene root and
// returns the resulting module. Blank programs compile to a no-op module.
//
// On failure the error is a *CompileError; anything setup managed to attach
// to the root stays there for the caller to sweep.
func (c *Compiler) Compile(p Program) (Module, error) {
	ledger := quarkgl.NewLedger()
	if strings.TrimSpace(p.Source) == "" {
		return &noopModule{program: p, ledger: ledger}, nil
	}

	vm := goja.New()
	vm.SetFieldNameMapper(fieldMapper{})
	vm.SetMaxCallStackSize(maxCallStack)
	if c.random != nil {
		vm.SetRandSource(goja.RandSource(c.random))
	}
	b := newBinder(vm, ledger, c.random)
	ns := b.namespace()
	hints := &hinter{source: p.Source, names: b.names}

	fail := func(err error) (Module, error) {
		msg := describe(err)
		c.logger.Debug("compile failed", "program", p.ID, "error", msg)
		return nil, &CompileError{Program: p.ID, Message: msg, Hint: hints.hint(msg), Ledger: ledger, Err: err}
	}

	prog, err := goja.Compile(programName(p), wrapSource(p.Source), false)
	if err != nil {
		return fail(err)
	}

	var result goja.Value
	err = callWithBudget(vm, c.budget.Setup, func() error {
		v, err := vm.RunProgram(prog)
		if err != nil {
			return err
		}
		setup, ok := goja.AssertFunction(v)
		if !ok {
			return errors.New("program body is not a function")
		}
		result, err = setup(goja.Undefined(),
			ns,
			vm.ToValue(c.port.Root),
			vm.ToValue(c.port.Camera),
			vm.ToValue(c.port.Renderer),
		)
		return err
	})
	if err != nil {
		return fail(err)
	}

	m := &jsModule{program: p, vm: vm, ledger: ledger, budget: c.budget, hints: hints}
	m.bind(result)
	c.logger.Debug("compiled", "program", p.ID, "animated", m.Animated(), "resources", ledger.Len())
	return m, nil
}

func wrapSource(src string) string {
	return "(function (THREE, scene, camera, renderer) {\n" + src + "\n})"
}

func programName(p Program) string {
	if p.ID == "" {
		return "scene.js"
	}
	return p.ID + ".js"
}
