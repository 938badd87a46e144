package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/internal/adapters/config"
	"go.trai.ch/stevedore/internal/core/domain"
)

func writeDeployfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stevedore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	t.Parallel()

	path := writeDeployfile(t, `
version: "1"
budget:
  cpu: 4
  memoryMB: 4096
stages:
  - name: base
    instructions:
      - "FROM golang:1.25-alpine"
    inputs: ["go.mod"]
  - name: build
    from: [base]
    instructions:
      - "RUN go build ./..."
services:
  - name: db
    healthcheck:
      test: ["pg_isready"]
      interval: 2s
      timeout: 20s
      retries: 5
    resources:
      requests: {cpu: 0.5, memoryMB: 256}
      limits: {cpu: 1, memoryMB: 512}
  - name: api
    dependsOn: [db]
    resources:
      limits: {cpu: 1, memoryMB: 512}
`)

	dep, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, dep.Stages.StageCount())
	assert.Equal(t, 2, dep.Services.ServiceCount())
	assert.Equal(t, 4.0, dep.Budget.CPU)
	assert.Equal(t, int64(4096), dep.Budget.MemoryMB)
	assert.Equal(t, filepath.Dir(path), dep.Root)

	db, ok := dep.Services.Service("db")
	require.True(t, ok)
	require.NotNil(t, db.Health)
	assert.Equal(t, []string{"pg_isready"}, db.Health.Test)
	assert.Equal(t, 2*time.Second, db.Health.Interval)
	assert.Equal(t, 20*time.Second, db.Health.Timeout)
	assert.Equal(t, 5, db.Health.Retries)
	assert.Equal(t, 0.5, db.Resources.Requests.CPU)

	api, ok := dep.Services.Service("api")
	require.True(t, ok)
	assert.Nil(t, api.Health)
	assert.Equal(t, []string{"db"}, api.DependsOn)
}

func TestFileConfigLoader_AbsolutePath(t *testing.T) {
	t.Parallel()

	// An absolute -c path must not be joined onto the working directory.
	path := writeDeployfile(t, `
services:
  - name: db
`)
	require.True(t, filepath.IsAbs(path))

	loader := &config.FileConfigLoader{Filename: path}
	dep, err := loader.Load(".")
	require.NoError(t, err)
	assert.Equal(t, 1, dep.Services.ServiceCount())
}

func TestFileConfigLoader_RelativePath(t *testing.T) {
	t.Parallel()

	path := writeDeployfile(t, `
services:
  - name: db
`)

	loader := &config.FileConfigLoader{Filename: filepath.Base(path)}
	dep, err := loader.Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, 1, dep.Services.ServiceCount())
}

func TestLoad_DeclarationOrderPreserved(t *testing.T) {
	t.Parallel()

	path := writeDeployfile(t, `
services:
  - name: zeta
  - name: alpha
  - name: mid
`)

	dep, err := config.Load(path)
	require.NoError(t, err)

	var names []string
	for _, svc := range dep.Services.Services() {
		names = append(names, svc.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestLoad_HealthcheckDefaults(t *testing.T) {
	t.Parallel()

	path := writeDeployfile(t, `
services:
  - name: db
    healthcheck:
      test: ["true"]
`)

	dep, err := config.Load(path)
	require.NoError(t, err)

	db, ok := dep.Services.Service("db")
	require.True(t, ok)
	require.NotNil(t, db.Health)
	assert.Equal(t, 5*time.Second, db.Health.Interval)
	assert.Equal(t, 30*time.Second, db.Health.Timeout)
	assert.Equal(t, 3, db.Health.Retries)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name: "unknown stage reference",
			content: `
stages:
  - name: build
    from: [base]
`,
			want: domain.ErrUnknownStageReference,
		},
		{
			name: "stage cycle",
			content: `
stages:
  - name: a
    from: [b]
  - name: b
    from: [a]
`,
			want: domain.ErrCyclicStage,
		},
		{
			name: "service cycle",
			content: `
services:
  - name: a
    dependsOn: [b]
  - name: b
    dependsOn: [a]
`,
			want: domain.ErrCyclicService,
		},
		{
			name: "invalid service name",
			content: `
services:
  - name: "not ok"
`,
			want: domain.ErrInvalidName,
		},
		{
			name: "bad duration",
			content: `
services:
  - name: db
    healthcheck:
      test: ["true"]
      interval: soon
`,
			want: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeDeployfile(t, tt.content)
			_, err := config.Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}
