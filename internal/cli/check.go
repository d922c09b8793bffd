package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"axiom/app"
	"axiom/engine/journal"
	"axiom/engine/mode"
	"axiom/engine/script"
	"axiom/hal"
	"axiom/internal/llm"
)

// CheckOptions configures a program check.
type CheckOptions struct {
	Demo   string
	Frames uint64
	Hz     int
	PNG    string
	Scale  int
	JSON   bool
}

// CheckReport describes one checked program.
type CheckReport struct {
	Program      string `json:"program"`
	Compiled     bool   `json:"compiled"`
	CompileError string `json:"compile_error,omitempty"`
	RuntimeError string `json:"runtime_error,omitempty"`
	Animated     bool   `json:"animated"`
	Frames       uint64 `json:"frames"`
	Nodes        int    `json:"nodes"`
	Resources    int    `json:"resources"`
	Triangles    int    `json:"triangles"`
	Points       int    `json:"points"`
	Segments     int    `json:"segments"`
}

// OK reports whether the program compiled and ran without errors.
func (r CheckReport) OK() bool { return r.Compiled && r.RuntimeError == "" }

// NewCheckCommand compiles a program, runs it headless and reports.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Compile and run a scene program headless and report on it",
		Long: `Compile a scene program, run it for --frames frames without a window and
report whether setup and update succeeded along with scene statistics.
Use "-" to read the program from stdin, or --demo to check a bundled one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(opts, args, cmd.InOrStdin())
			if err != nil {
				return WrapExitError(ExitCommandError, "load program", err)
			}
			report, err := runCheck(cmd.Context(), rootOpts, opts, prog)
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), report, opts.JSON); err != nil {
				return err
			}
			if !report.OK() {
				return NewExitError(ExitFailure, "check failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Demo, "demo", "", "check a bundled demo by name")
	cmd.Flags().Uint64Var(&opts.Frames, "frames", 60, "frames to run")
	cmd.Flags().IntVar(&opts.Hz, "hz", 30, "simulated frame rate")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "write the last frame to this PNG file")
	cmd.Flags().IntVar(&opts.Scale, "scale", 3, "PNG upscale factor")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the report as JSON")
	return cmd
}

func loadProgram(opts *CheckOptions, args []string, stdin io.Reader) (script.Program, error) {
	if opts.Demo != "" {
		if len(args) > 0 {
			return script.Program{}, errors.New("give either a file or --demo, not both")
		}
		res, ok := llm.NewOfflineGenerator().Demo(opts.Demo)
		if !ok {
			return script.Program{}, fmt.Errorf("no demo named %q", opts.Demo)
		}
		return script.Program{ID: opts.Demo, Source: res.Code, Explanation: res.Explanation}, nil
	}
	if len(args) == 0 {
		return script.Program{}, errors.New("no program given")
	}
	var (
		data []byte
		err  error
		id   = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	)
	if args[0] == "-" {
		data, err = io.ReadAll(stdin)
		id = "stdin"
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return script.Program{}, err
	}
	return script.Program{ID: id, Source: llm.Sanitize(string(data))}, nil
}

func runCheck(ctx context.Context, rootOpts *RootOptions, opts *CheckOptions, prog script.Program) (CheckReport, error) {
	report := CheckReport{Program: prog.ID}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Frames == 0 {
		opts.Frames = 1
	}

	var (
		sys *app.System
		fb  hal.Framebuffer
	)
	err := hal.RunHeadless(ctx, func(h hal.HAL) func() error {
		cfg := rootOpts.appConfig(nil)
		cfg.HideOverlay = true
		sys = app.New(h, cfg)
		fb = h.Display().Framebuffer()
		if err := sys.Load(prog); err != nil {
			return func() error { return err }
		}
		return sys.Step
	}, hal.HeadlessConfig{
		Width:   rootOpts.Config().Window.Width,
		Height:  rootOpts.Config().Window.Height,
		Hz:      opts.Hz,
		Ticks:   opts.Frames,
		Unpaced: true,
	})
	if sys != nil {
		defer sys.Close()
	}
	if err != nil {
		return report, err
	}

	report.Frames = sys.Surface().Frames()
	report.Compiled = sys.Controller().Mode() != mode.Error
	for _, ev := range sys.Events() {
		if ev.Severity != journal.SeverityError {
			continue
		}
		switch {
		case strings.HasPrefix(ev.Text, "Compile error: "):
			report.CompileError = strings.TrimPrefix(ev.Text, "Compile error: ")
		case strings.HasPrefix(ev.Text, "Runtime error: "):
			report.RuntimeError = strings.TrimPrefix(ev.Text, "Runtime error: ")
		}
	}
	if m := sys.Lifecycle().Module(); m != nil {
		report.Animated = m.Animated()
		report.Resources = m.Ledger().Len()
	}
	stats := sys.Surface().Stats()
	report.Nodes = stats.Nodes
	report.Triangles = stats.Triangles
	report.Points = stats.Points
	report.Segments = stats.Segments

	if opts.PNG != "" {
		if err := WritePNG(opts.PNG, Snapshot(fb, opts.Scale)); err != nil {
			return report, WrapExitError(ExitCommandError, "write png", err)
		}
	}
	return report, nil
}

func printReport(w io.Writer, r CheckReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	status := "ok"
	if !r.OK() {
		status = "FAILED"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", r.Program, status)
	if r.CompileError != "" {
		fmt.Fprintf(&b, "  compile error: %s\n", r.CompileError)
	}
	if r.RuntimeError != "" {
		fmt.Fprintf(&b, "  runtime error: %s\n", r.RuntimeError)
	}
	fmt.Fprintf(&b, "  frames %d  animated %t  resources %d\n", r.Frames, r.Animated, r.Resources)
	fmt.Fprintf(&b, "  nodes %d  triangles %d  points %d  segments %d\n", r.Nodes, r.Triangles, r.Points, r.Segments)
	_, err := io.WriteString(w, b.String())
	return err
}
