// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/stevedore/internal/core/domain"

// ConfigLoader defines the interface for loading the deployment configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory and
	// returns the resolved deployment.
	Load(cwd string) (*domain.Deployment, error)
}
