// Package main is the entry point for the stevedore CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/stevedore/cmd/stevedore/commands"
	"go.trai.ch/stevedore/internal/adapters/config"
	"go.trai.ch/stevedore/internal/app"
	_ "go.trai.ch/stevedore/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// Render the recorded progress tree on the way out.
	defer func() {
		if err := components.Telemetry.Close(); err != nil {
			components.Logger.Error(err)
		}
	}()

	cli := commands.New(components.App)
	cli.SetConfigHook(func(path string) {
		if loader, ok := components.ConfigLoader.(*config.FileConfigLoader); ok {
			loader.Filename = path
		}
	})

	if err := cli.Execute(ctx); err != nil {
		// zerr prints a report with stack trace and metadata when using %+v.
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
