package progrock_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/internal/adapters/telemetry/progrock"
	"go.trai.ch/stevedore/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, progrock.New())
}

func TestRecorderRendersTapeOnClose(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	recorder := progrock.NewWithOutput(out)

	_, vertex := recorder.Record(context.Background(), "plan build")
	_, err := vertex.Stdout().Write([]byte("computing fingerprints\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelInfo, "evaluated")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())

	// Recorded vertices must be visible in the rendered tree, not just held
	// in memory.
	assert.Contains(t, out.String(), "plan build")
}

func TestRecorderCachedVertexRenders(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	recorder := progrock.NewWithOutput(out)

	_, vertex := recorder.Record(context.Background(), "stage base")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
	assert.Contains(t, out.String(), "stage base")
}
