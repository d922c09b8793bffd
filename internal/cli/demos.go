package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"axiom/internal/llm"
)

// NewDemosCommand lists the bundled offline programs.
func NewDemosCommand(*RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demos",
		Short: "List the bundled offline programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := llm.NewOfflineGenerator()
			for _, name := range g.Names() {
				res, _ := g.Demo(name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, res.Explanation); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
