package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datos-demre/demre/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	originalCwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if cdErr := os.Chdir(originalCwd); cdErr != nil {
			t.Errorf("Failed to restore original directory: %v", cdErr)
		}
	})
}

func abs(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	resolved, err = filepath.Abs(resolved)
	require.NoError(t, err)
	return resolved
}

//nolint:paralleltest // changes working directory and environment variables
func TestFindRoot_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.ProjectDirEnv, dir)

	root, err := FindRoot()
	require.NoError(t, err)
	assert.Equal(t, abs(t, dir), abs(t, root))
}

//nolint:paralleltest // changes working directory and environment variables
func TestFindRoot_EnvPointsToMissingDir(t *testing.T) {
	t.Setenv(constants.ProjectDirEnv, filepath.Join(t.TempDir(), "missing"))

	projectDir := filepath.Join(t.TempDir(), "proyecto")
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, "data", "raw"), 0o750))
	chdir(t, filepath.Join(projectDir, "data", "raw"))

	root, err := FindRoot()
	require.NoError(t, err)
	assert.Equal(t, abs(t, projectDir), abs(t, root))
}

//nolint:paralleltest // changes working directory and environment variables
func TestFindRoot_WithMarkers(t *testing.T) {
	t.Setenv(constants.ProjectDirEnv, "")

	for _, marker := range []string{".git", "go.mod", "data"} {
		t.Run(marker, func(t *testing.T) {
			projectDir := filepath.Join(t.TempDir(), "my-project")
			subDir := filepath.Join(projectDir, "notebooks", "eda")
			require.NoError(t, os.MkdirAll(subDir, 0o750))
			require.NoError(t, os.MkdirAll(filepath.Join(projectDir, marker), 0o750))
			chdir(t, subDir)

			root, err := FindRoot()
			require.NoError(t, err)
			assert.Equal(t, abs(t, projectDir), abs(t, root))
		})
	}
}

func TestFindProjectMarkerFrom(t *testing.T) {
	t.Parallel()

	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "go.mod"), []byte("module x\n"), 0o600))
	subDir := filepath.Join(projectDir, "a", "b")
	require.NoError(t, os.MkdirAll(subDir, 0o750))

	root, found := FindProjectMarkerFrom(subDir)
	require.True(t, found)
	assert.Equal(t, projectDir, root)
}
