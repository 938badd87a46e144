// Package config provides the deployment file loader for stevedore.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a healthcheck omits a field, matching common
// container platform conventions.
const (
	defaultProbeInterval = 5 * time.Second
	defaultProbeTimeout  = 30 * time.Second
	defaultProbeRetries  = 3
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the deployment file from the given working directory.
// An absolute Filename is used as-is.
func (l *FileConfigLoader) Load(cwd string) (*domain.Deployment, error) {
	path := l.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	return Load(path)
}

// Load reads a deployment file from the given path and returns the resolved
// deployment. Structural errors (cyclic graphs, unknown references) are
// reported here, before any side-effecting action.
func Load(path string) (*domain.Deployment, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Deployfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	stages, err := buildStageGraph(file.Stages)
	if err != nil {
		return nil, err
	}

	services, err := buildServiceGraph(file.Services)
	if err != nil {
		return nil, err
	}

	root := file.Root
	if root == "" {
		root = filepath.Dir(path)
	}

	return &domain.Deployment{
		Stages:   stages,
		Services: services,
		Budget:   domain.ResourceBudget{CPU: file.Budget.CPU, MemoryMB: file.Budget.MemoryMB},
		Root:     root,
	}, nil
}

func buildStageGraph(dtos []StageDTO) (*domain.StageGraph, error) {
	g := domain.NewStageGraph()
	for _, dto := range dtos {
		if !nameRe.MatchString(dto.Name) {
			return nil, zerr.With(domain.ErrInvalidName, "stage", dto.Name)
		}
		stage := &domain.Stage{
			Name:         dto.Name,
			Instructions: dto.Instructions,
			Inputs:       dto.Inputs,
			From:         dto.From,
		}
		if err := g.AddStage(stage); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func buildServiceGraph(dtos []ServiceDTO) (*domain.ServiceGraph, error) {
	g := domain.NewServiceGraph()
	for _, dto := range dtos {
		if !nameRe.MatchString(dto.Name) {
			return nil, zerr.With(domain.ErrInvalidName, "service", dto.Name)
		}

		health, err := buildHealthCheck(dto.Name, dto.Healthcheck)
		if err != nil {
			return nil, err
		}

		svc := &domain.Service{
			Name:      dto.Name,
			DependsOn: dto.DependsOn,
			Health:    health,
			Resources: domain.ResourceSpec{
				Requests: domain.Resources{CPU: dto.Resources.Requests.CPU, MemoryMB: dto.Resources.Requests.MemoryMB},
				Limits:   domain.Resources{CPU: dto.Resources.Limits.CPU, MemoryMB: dto.Resources.Limits.MemoryMB},
			},
		}
		if err := g.AddService(svc); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func buildHealthCheck(service string, dto *HealthcheckDTO) (*domain.HealthCheck, error) {
	if dto == nil {
		return nil, nil
	}

	interval, err := parseDuration(service, "interval", dto.Interval, defaultProbeInterval)
	if err != nil {
		return nil, err
	}
	timeout, err := parseDuration(service, "timeout", dto.Timeout, defaultProbeTimeout)
	if err != nil {
		return nil, err
	}

	retries := dto.Retries
	if retries <= 0 {
		retries = defaultProbeRetries
	}

	return &domain.HealthCheck{
		Test:     dto.Test,
		Interval: interval,
		Timeout:  timeout,
		Retries:  retries,
	}, nil
}

func parseDuration(service, field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "service", service)
		return 0, zerr.With(wrapped, "field", field)
	}
	return d, nil
}
