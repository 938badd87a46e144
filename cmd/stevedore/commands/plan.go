package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Compute the build plan without executing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := c.app.Plan(cmd.Context(), ".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, staged := range plan.Stages {
				_, _ = fmt.Fprintf(out, "%-6s %s\n", staged.Status, staged.Stage.Name)
			}
			_, _ = fmt.Fprintf(out, "%d stage(s) to rebuild\n", len(plan.Misses()))
			return nil
		},
	}
}
