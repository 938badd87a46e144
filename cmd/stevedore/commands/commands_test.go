package commands_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/cmd/stevedore/commands"
	"go.trai.ch/stevedore/internal/adapters/cas"
	"go.trai.ch/stevedore/internal/adapters/fs"
	"go.trai.ch/stevedore/internal/adapters/telemetry"
	"go.trai.ch/stevedore/internal/app"
	"go.trai.ch/stevedore/internal/build"
	"go.trai.ch/stevedore/internal/core/domain"
	"go.trai.ch/stevedore/internal/core/ports/mocks"
	"go.trai.ch/stevedore/internal/engine/planner"
	"go.trai.ch/stevedore/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T, dep *domain.Deployment) (*commands.CLI, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(dep, nil).AnyTimes()

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	store, err := cas.NewStore(filepath.Join(t.TempDir(), cas.DefaultStorePath))
	require.NoError(t, err)

	noop := telemetry.NewNoOp()
	a := app.New(
		loader,
		planner.NewPlanner(fs.NewFingerprinter(fs.NewReader()), store, noop),
		scheduler.NewScheduler(prober, log, noop),
		log,
	)

	cli := commands.New(a)
	out := &bytes.Buffer{}
	cli.SetOutput(out)
	return cli, out
}

func testDeployment(t *testing.T) *domain.Deployment {
	t.Helper()
	stages := domain.NewStageGraph()
	require.NoError(t, stages.AddStage(&domain.Stage{
		Name:         "build",
		Instructions: []string{"make"},
	}))

	services := domain.NewServiceGraph()
	require.NoError(t, services.AddService(&domain.Service{Name: "web"}))

	return &domain.Deployment{Stages: stages, Services: services, Root: t.TempDir()}
}

func TestPlanCommandPrintsCacheStatus(t *testing.T) {
	cli, out := newCLI(t, testDeployment(t))

	cli.SetArgs([]string{"plan"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), "miss")
	assert.Contains(t, out.String(), "build")
	assert.Contains(t, out.String(), "1 stage(s) to rebuild")
}

func TestUpCommandStartsServices(t *testing.T) {
	cli, _ := newCLI(t, testDeployment(t))

	cli.SetArgs([]string{"up"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	cli, out := newCLI(t, testDeployment(t))

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), build.Version)
}

func TestRootHelp(t *testing.T) {
	cli, out := newCLI(t, testDeployment(t))

	cli.SetArgs([]string{"--help"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), "stevedore")
	assert.Contains(t, out.String(), "plan")
	assert.Contains(t, out.String(), "up")
}
