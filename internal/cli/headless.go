package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"axiom/app"
	"axiom/engine/mode"
	"axiom/hal"
)

// HeadlessOptions drives a windowless run.
type HeadlessOptions struct {
	Prompts []string
	Stdin   bool
	Ticks   uint64
	Hz      int

	// Hold is how many frames each settled program runs before the next
	// prompt is submitted.
	Hold   int
	Settle time.Duration
	Paced  bool
	PNG    string
	Scale  int
}

// NewHeadlessCommand runs prompts without a window and prints the journal.
func NewHeadlessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HeadlessOptions{}
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run prompts without a window and print the event log",
		Long: `Run prompts without a window. Each prompt is submitted once the previous
one has settled and run for --hold frames. Prompts come from --prompt flags
and, with --stdin, one per line from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Stdin {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						opts.Prompts = append(opts.Prompts, line)
					}
				}
				if err := sc.Err(); err != nil {
					return WrapExitError(ExitCommandError, "read stdin", err)
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runHeadless(ctx, rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.Prompts, "prompt", "p", nil, "prompt to run (repeatable)")
	cmd.Flags().BoolVar(&opts.Stdin, "stdin", false, "read prompts from stdin, one per line")
	cmd.Flags().Uint64Var(&opts.Ticks, "ticks", 0, "stop after N frames (0 = when all prompts have run)")
	cmd.Flags().IntVar(&opts.Hz, "hz", 30, "frame rate")
	cmd.Flags().IntVar(&opts.Hold, "hold", 90, "frames to run each program before the next prompt")
	cmd.Flags().DurationVar(&opts.Settle, "settle", 2*time.Minute, "longest wait for one generation")
	cmd.Flags().BoolVar(&opts.Paced, "paced", false, "run in real time instead of as fast as possible")
	cmd.Flags().StringVar(&opts.PNG, "png", "", "write the last frame to this PNG file")
	cmd.Flags().IntVar(&opts.Scale, "scale", 1, "PNG upscale factor")
	return cmd
}

func runHeadless(ctx context.Context, rootOpts *RootOptions, opts *HeadlessOptions, cmd *cobra.Command) error {
	cfg := rootOpts.Config()
	gen, err := NewGenerator(cfg.LLM, rootOpts.Logger())
	if err != nil {
		return WrapExitError(ExitCommandError, "generator", err)
	}
	out := cmd.OutOrStdout()
	sink := &writerSink{w: out}

	var (
		sys   *app.System
		fb    hal.Framebuffer
		queue = append([]string(nil), opts.Prompts...)
		held  = opts.Hold
	)
	err = hal.RunHeadless(ctx, func(h hal.HAL) func() error {
		sys = app.New(h, rootOpts.appConfig(gen, sink))
		fb = h.Display().Framebuffer()
		return func() error {
			if held >= opts.Hold && len(queue) > 0 {
				if err := sys.Submit(queue[0]); err != nil {
					return err
				}
				queue = queue[1:]
				held = 0
				sys.Wait(opts.Settle)
			}
			if err := sys.Step(); err != nil {
				return err
			}
			held++
			if opts.Ticks == 0 && len(queue) == 0 && held >= opts.Hold {
				return hal.ErrStop
			}
			return nil
		}
	}, hal.HeadlessConfig{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		Hz:      opts.Hz,
		Ticks:   opts.Ticks,
		Unpaced: !opts.Paced,
	})
	if sys == nil {
		return err
	}
	defer sys.Close()
	if err != nil {
		return err
	}

	st := sys.Controller().Mode()
	stats := sys.Surface().Stats()
	fmt.Fprintf(out, "mode=%s frames=%d nodes=%d triangles=%d points=%d\n",
		st, sys.Surface().Frames(), stats.Nodes, stats.Triangles, stats.Points)

	if opts.PNG != "" {
		if err := WritePNG(opts.PNG, Snapshot(fb, opts.Scale)); err != nil {
			return WrapExitError(ExitCommandError, "write png", err)
		}
	}
	if st == mode.Error {
		return NewExitError(ExitFailure, "last request failed")
	}
	return nil
}
