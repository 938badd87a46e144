package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestStageGraph_AddStage_Duplicate(t *testing.T) {
	t.Parallel()

	g := domain.NewStageGraph()
	stage := domain.Stage{Name: "base"}

	require.NoError(t, g.AddStage(&stage))

	err := g.AddStage(&stage)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStageAlreadyExists)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "base", zErr.Metadata()["stage"])
}

func TestStageGraph_Validate_UnknownReference(t *testing.T) {
	t.Parallel()

	g := domain.NewStageGraph()
	require.NoError(t, g.AddStage(&domain.Stage{Name: "app", From: []string{"base"}}))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStageReference)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "base", zErr.Metadata()["reference"])
}

func TestStageGraph_Validate_Cycle(t *testing.T) {
	t.Parallel()

	g := domain.NewStageGraph()
	require.NoError(t, g.AddStage(&domain.Stage{Name: "a", From: []string{"b"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "b", From: []string{"a"}}))

	err := g.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCyclicStage)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	cycle, ok := zErr.Metadata()["cycle"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, cycle)
}

func TestStageGraph_Walk_Order(t *testing.T) {
	t.Parallel()

	// deps -> base, app -> deps, docs is independent.
	g := domain.NewStageGraph()
	require.NoError(t, g.AddStage(&domain.Stage{Name: "app", From: []string{"deps"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "docs"}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "deps", From: []string{"base"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "base"}))

	require.NoError(t, g.Validate())

	var order []string
	for stage := range g.Walk() {
		order = append(order, stage.Name)
	}

	// docs is eligible from the start and declared before deps and base,
	// so declaration order places it first.
	assert.Equal(t, []string{"docs", "base", "deps", "app"}, order)
}

func TestStageGraph_Walk_DependencyBeforeDependent(t *testing.T) {
	t.Parallel()

	g := domain.NewStageGraph()
	require.NoError(t, g.AddStage(&domain.Stage{Name: "base"}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "build", From: []string{"base"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "test", From: []string{"build"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "release", From: []string{"build", "test"}}))

	require.NoError(t, g.Validate())

	position := make(map[string]int)
	i := 0
	for stage := range g.Walk() {
		position[stage.Name] = i
		i++
	}

	require.Len(t, position, 4)
	for stage := range g.Walk() {
		for _, from := range stage.From {
			assert.Less(t, position[from], position[stage.Name],
				"%s must appear after %s", stage.Name, from)
		}
	}
}

func TestStageGraph_Dependents(t *testing.T) {
	t.Parallel()

	g := domain.NewStageGraph()
	require.NoError(t, g.AddStage(&domain.Stage{Name: "base"}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "build", From: []string{"base"}}))
	require.NoError(t, g.AddStage(&domain.Stage{Name: "docs", From: []string{"base"}}))

	assert.Equal(t, []string{"build", "docs"}, g.Dependents("base"))
	assert.Empty(t, g.Dependents("docs"))
}
