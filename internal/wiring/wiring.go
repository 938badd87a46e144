// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stevedore/internal/adapters/cas"
	_ "go.trai.ch/stevedore/internal/adapters/config"
	_ "go.trai.ch/stevedore/internal/adapters/fs"
	_ "go.trai.ch/stevedore/internal/adapters/logger"
	_ "go.trai.ch/stevedore/internal/adapters/probe"
	_ "go.trai.ch/stevedore/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/stevedore/internal/app"
	_ "go.trai.ch/stevedore/internal/engine/planner"
	_ "go.trai.ch/stevedore/internal/engine/scheduler"
)
