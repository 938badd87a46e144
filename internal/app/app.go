// Package app implements the application layer for stevedore.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports"
	"go.trai.ch/stevedore/internal/engine/planner"
	"go.trai.ch/stevedore/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App coordinates the two engines: the build planner, which decides which
// stages must be rebuilt, and the scheduler, which brings services up in
// dependency order.
type App struct {
	configLoader ports.ConfigLoader
	planner      *planner.Planner
	scheduler    *scheduler.Scheduler
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, plan *planner.Planner, sched *scheduler.Scheduler, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		planner:      plan,
		scheduler:    sched,
		logger:       logger,
	}
}

// Plan loads the deployment from cwd and computes the build plan without
// executing anything. Fingerprints are discarded so a dry run never touches
// the store.
func (a *App) Plan(ctx context.Context, cwd string) (*domain.BuildPlan, error) {
	deployment, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	plan, err := a.planner.Plan(ctx, deployment.Stages, deployment.Root)
	if err != nil {
		return nil, zerr.Wrap(err, "build planning failed")
	}
	a.planner.Discard()

	return plan, nil
}

// Up loads the deployment, plans the build, and starts the services.
// Fingerprints computed during planning are committed only once every
// service reaches Healthy; an aborted or failed startup leaves the store
// untouched.
func (a *App) Up(ctx context.Context, cwd string) error {
	deployment, err := a.configLoader.Load(cwd)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	plan, err := a.planner.Plan(ctx, deployment.Stages, deployment.Root)
	if err != nil {
		return zerr.Wrap(err, "build planning failed")
	}

	for _, staged := range plan.Stages {
		a.logger.Info(fmt.Sprintf("stage %s: cache %s", staged.Stage.Name, staged.Status))
	}

	events, err := a.scheduler.Schedule(ctx, deployment.Services, deployment.Budget)
	if err != nil {
		a.planner.Discard()
		return zerr.Wrap(err, "service scheduling failed")
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		for transition := range events {
			a.logTransition(transition)
		}
		return nil
	})

	schedErr := a.scheduler.Wait()
	_ = g.Wait() // consumer only exits once events is closed

	if schedErr != nil {
		a.planner.Discard()
		return zerr.Wrap(schedErr, "service startup failed")
	}

	if err := a.planner.Commit(); err != nil {
		return zerr.Wrap(err, "failed to persist fingerprints")
	}
	return nil
}

func (a *App) logTransition(t domain.Transition) {
	msg := fmt.Sprintf("service %s: %s -> %s", t.Service, t.From, t.To)
	switch {
	case t.Err != nil:
		a.logger.Error(zerr.Wrap(t.Err, msg))
	case t.To == domain.StateFailed:
		a.logger.Warn(msg)
	default:
		a.logger.Info(msg)
	}
}
