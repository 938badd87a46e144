package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stevedore/internal/adapters/fs"
	"go.trai.ch/stevedore/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReader_Resolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example\n")
	writeFile(t, root, "src/a.go", "package a\n")
	writeFile(t, root, "src/b.go", "package a\n")

	reader := fs.NewReader()

	t.Run("plain file", func(t *testing.T) {
		t.Parallel()
		files, err := reader.Resolve(root, "go.mod")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "go.mod")}, files)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		files, err := reader.Resolve(root, "src")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("glob", func(t *testing.T) {
		t.Parallel()
		files, err := reader.Resolve(root, "src/*.go")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		_, err := reader.Resolve(root, "nonexistent.txt")
		require.ErrorIs(t, err, domain.ErrInputNotFound)
	})
}

func TestFingerprinter_Deterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	fp := fs.NewFingerprinter(fs.NewReader())
	stage := &domain.Stage{
		Name:         "build",
		Instructions: []string{"COPY main.go .", "RUN go build"},
		Inputs:       []string{"main.go"},
	}

	first, err := fp.FingerprintStage(stage, nil, root)
	require.NoError(t, err)
	second, err := fp.FingerprintStage(stage, nil, root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestFingerprinter_SensitiveToChanges(t *testing.T) {
	t.Parallel()

	fp := fs.NewFingerprinter(fs.NewReader())
	stage := &domain.Stage{
		Name:         "build",
		Instructions: []string{"RUN go build"},
		Inputs:       []string{"main.go"},
	}

	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	base, err := fp.FingerprintStage(stage, nil, root)
	require.NoError(t, err)

	t.Run("one byte of input content", func(t *testing.T) {
		// Same relative layout in a fresh root: only the content differs.
		root2 := t.TempDir()
		writeFile(t, root2, "main.go", "package main!")
		changed, err := fp.FingerprintStage(stage, nil, root2)
		require.NoError(t, err)
		assert.NotEqual(t, base, changed)
	})

	t.Run("identical content in a different root", func(t *testing.T) {
		root2 := t.TempDir()
		writeFile(t, root2, "main.go", "package main\n")
		same, err := fp.FingerprintStage(stage, nil, root2)
		require.NoError(t, err)
		assert.Equal(t, base, same)
	})

	t.Run("instruction text", func(t *testing.T) {
		other := &domain.Stage{
			Name:         "build",
			Instructions: []string{"RUN go build -trimpath"},
			Inputs:       []string{"main.go"},
		}
		changed, err := fp.FingerprintStage(other, nil, root)
		require.NoError(t, err)
		assert.NotEqual(t, base, changed)
	})

	t.Run("upstream digest", func(t *testing.T) {
		changed, err := fp.FingerprintStage(stage, []string{"0011223344556677"}, root)
		require.NoError(t, err)
		assert.NotEqual(t, base, changed)
	})
}
