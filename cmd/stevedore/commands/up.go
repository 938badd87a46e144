package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Plan the build and start the services in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Up(cmd.Context(), ".")
		},
	}
}
