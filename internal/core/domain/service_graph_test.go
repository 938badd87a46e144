package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/internal/core/domain"
)

func newServiceGraph(t *testing.T, services ...domain.Service) *domain.ServiceGraph {
	t.Helper()
	g := domain.NewServiceGraph()
	for i := range services {
		require.NoError(t, g.AddService(&services[i]))
	}
	return g
}

func TestServiceGraph_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid chain", func(t *testing.T) {
		t.Parallel()
		g := newServiceGraph(t,
			domain.Service{Name: "db"},
			domain.Service{Name: "api", DependsOn: []string{"db"}},
			domain.Service{Name: "web", DependsOn: []string{"api"}},
		)
		require.NoError(t, g.Validate())
	})

	t.Run("unknown dependency", func(t *testing.T) {
		t.Parallel()
		g := newServiceGraph(t,
			domain.Service{Name: "api", DependsOn: []string{"db"}},
		)
		err := g.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownServiceReference)
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		g := newServiceGraph(t,
			domain.Service{Name: "a", DependsOn: []string{"b"}},
			domain.Service{Name: "b", DependsOn: []string{"c"}},
			domain.Service{Name: "c", DependsOn: []string{"a"}},
		)
		err := g.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCyclicService)
	})

	t.Run("duplicate service", func(t *testing.T) {
		t.Parallel()
		g := domain.NewServiceGraph()
		require.NoError(t, g.AddService(&domain.Service{Name: "db"}))
		err := g.AddService(&domain.Service{Name: "db"})
		assert.ErrorIs(t, err, domain.ErrServiceAlreadyExists)
	})
}

func TestServiceGraph_TransitiveDependents(t *testing.T) {
	t.Parallel()

	// db <- api <- web, db <- worker, cache independent.
	g := newServiceGraph(t,
		domain.Service{Name: "db"},
		domain.Service{Name: "cache"},
		domain.Service{Name: "api", DependsOn: []string{"db"}},
		domain.Service{Name: "worker", DependsOn: []string{"db"}},
		domain.Service{Name: "web", DependsOn: []string{"api"}},
	)

	assert.Equal(t, []string{"api", "worker", "web"}, g.TransitiveDependents("db"))
	assert.Equal(t, []string{"web"}, g.TransitiveDependents("api"))
	assert.Empty(t, g.TransitiveDependents("cache"))
}

func TestServiceState_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.StateHealthy.IsTerminal())
	assert.True(t, domain.StateFailed.IsTerminal())
	assert.True(t, domain.StateStopped.IsTerminal())
	assert.False(t, domain.StatePending.IsTerminal())
	assert.False(t, domain.StateStarting.IsTerminal())
	assert.False(t, domain.StateHealthChecking.IsTerminal())
}
