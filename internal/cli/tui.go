package cli

import (
	"github.com/spf13/cobra"

	"axiom/app"
	"axiom/hal"
	"axiom/internal/tui"
)

// NewTUICommand runs the terminal front end.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	opts := tui.Options{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run in the terminal with half-block graphics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := NewGenerator(rootOpts.Config().LLM, rootOpts.Logger())
			if err != nil {
				return WrapExitError(ExitCommandError, "generator", err)
			}
			m := tui.New(opts, func(h hal.HAL) *app.System {
				cfg := rootOpts.appConfig(gen)
				// Overlay text is unreadable at terminal resolution; the
				// model prints the journal itself.
				cfg.HideOverlay = true
				cfg.Sinks = nil
				return app.New(h, cfg)
			})
			return tui.Run(m)
		},
	}
	cmd.Flags().IntVar(&opts.Width, "width", 96, "framebuffer width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 64, "framebuffer height in pixels (two per text row)")
	cmd.Flags().IntVar(&opts.Hz, "hz", 20, "frames per second")
	cmd.Flags().IntVar(&opts.LogLines, "log-lines", 6, "journal lines shown")
	return cmd
}
