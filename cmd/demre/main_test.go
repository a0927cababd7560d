package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsExist(t *testing.T) {
	t.Parallel()

	rootCmd := createNewRootCommand()
	for _, name := range []string{"process", "status", "paths", "init", "validate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
		assert.NotEmpty(t, cmd.Short, name)
		assert.NotNil(t, cmd.RunE, name)
	}
}

func TestPersistentFlags(t *testing.T) {
	t.Parallel()

	flags := createNewRootCommand().PersistentFlags()
	tests := []struct {
		name      string
		shorthand string
		want      string
	}{
		{name: "config", shorthand: "c", want: "demre.yml"},
		{name: "root", shorthand: "r", want: ""},
		{name: "verbose", shorthand: "v", want: "false"},
		{name: "quiet", shorthand: "q", want: "false"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := flags.Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.want, flag.DefValue)
		})
	}
}

// project lays out a temp project whose config logs into the temp dir and
// accepts ZIP bundles.
func project(t *testing.T) (root, configPath string) {
	t.Helper()

	root = t.TempDir()
	configPath = filepath.Join(root, "demre.yml")
	config := "bundles:\n  extensions: [\".zip\"]\nlogging:\n  file: " +
		filepath.Join(root, "logs", "demre.log") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))
	return root, configPath
}

func writeBundle(t *testing.T, dir, name string, members map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for memberName, body := range members {
		member, err := w.Create(memberName)
		require.NoError(t, err)
		_, err = member.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd := createNewRootCommand()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProcessCommandEndToEnd(t *testing.T) {
	t.Parallel()

	root, configPath := project(t)
	archives := filepath.Join(root, "data", "raw", "demre_open", "rar")
	writeBundle(t, archives, "PROCESO-ADMISION-2021-DATOS.zip", map[string]string{
		"Bases/archivoC_Puntajes.csv": "id;ptje\n1;650\n",
		"Bases/archivoD_Postul.csv":   "id;carrera\n1;11001\n",
	})

	out, err := execute(t, "process", "--config", configPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "PROCESO-ADMISION-2021-DATOS.zip")
	assert.Contains(t, out, "2 data files")

	files := filepath.Join(root, "data", "raw", "demre_open", "databases", "files", "2021")
	for _, name := range []string{"resultados.csv", "postulaciones.csv"} {
		_, statErr := os.Stat(filepath.Join(files, name))
		require.NoError(t, statErr, name)
	}
	_, err = os.Stat(filepath.Join(files, "Bases"))
	assert.True(t, os.IsNotExist(err), "extraction folder should be removed")

	out, err = execute(t, "status", "--config", configPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "2021")
	assert.Contains(t, out, "resultados.csv")
}

func TestProcessCommandUnknownToken(t *testing.T) {
	t.Parallel()

	root, configPath := project(t)
	archives := filepath.Join(root, "data", "raw", "demre_open", "rar")
	writeBundle(t, archives, "PROCESO-ADMISION-2022-DATOS.zip", map[string]string{
		"archivoZ_Desconocido.csv": "x\n",
	})

	_, err := execute(t, "process", "-q", "-c", configPath, "-r", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category token")
}

func TestPathsCommand(t *testing.T) {
	t.Parallel()

	root, configPath := project(t)
	out, err := execute(t, "paths", "--config", configPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "data", "raw", "demre_open", "rar"))
	assert.Contains(t, out, filepath.Join(root, "data", "processed"))
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	root, configPath := project(t)
	out, err := execute(t, "validate", "--config", configPath, "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "[.zip]")
}

func TestValidateCommandRejectsBadConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configPath := filepath.Join(root, "demre.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("bundles:\n  year_field: -1\n"), 0o600))

	_, err := execute(t, "validate", "--config", configPath, "--root", root)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "validation error"))
}

func TestExplicitMissingConfigFails(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := execute(t, "paths", "--config", filepath.Join(root, "missing.yml"), "--root", root)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitCommandWritesConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "nested", "demre.yml")
	out, err := execute(t, "init", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+configPath)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "matricula: matriculas")

	require.NoError(t, os.WriteFile(configPath, []byte("root: /old\n"), 0o600))
	_, err = execute(t, "init", "--config", configPath, "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/old")
}
