// Package commands implements the CLI commands for stevedore.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stevedore/internal/adapters/config"
	"go.trai.ch/stevedore/internal/app"
)

// CLI represents the command line interface for stevedore.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stevedore",
		Short:         "A dependency planner for builds and service startup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to deployment file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newUpCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetConfigHook sets up a PersistentPreRun function that retrieves the config
// flag and calls the provided callback with the config path.
func (c *CLI) SetConfigHook(fn func(string)) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		fn(configPath)
		return nil
	}
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(out io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(out)
}
