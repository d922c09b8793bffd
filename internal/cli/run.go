package cli

import (
	"github.com/spf13/cobra"

	"axiom/app"
	"axiom/hal"
)

// NewRunCommand opens the desktop window.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the simulation window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rootOpts.Config()
			gen, err := NewGenerator(cfg.LLM, rootOpts.Logger())
			if err != nil {
				return WrapExitError(ExitCommandError, "generator", err)
			}
			var sys *app.System
			err = hal.RunWindow(func(h hal.HAL) func() error {
				sys = app.New(h, rootOpts.appConfig(gen))
				if prompt != "" {
					if err := sys.Submit(prompt); err != nil {
						rootOpts.Logger().Warn("initial prompt rejected", "error", err)
					}
				}
				return sys.Step
			}, hal.WindowConfig{
				Title:  cfg.Window.Title,
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Scale:  cfg.Window.Scale,
				TPS:    cfg.Render.Hz,
			})
			if sys != nil {
				_ = sys.Close()
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "submit this prompt at startup")
	return cmd
}
