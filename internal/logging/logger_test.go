package logging

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestConfig(writer *strings.Builder) Config {
	return Config{
		Writer: writer,
		Level:  InfoLevel,
	}
}

func TestGet_WithoutLogger(t *testing.T) {
	t.Parallel()

	logger := Get(context.Background())

	require.NotNil(t, logger)
	// When no logger is attached, zerolog.Ctx returns a disabled logger
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNew_WithCustomWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))

	require.NoError(t, err)
	logger := Get(ctx)
	assert.Equal(t, InfoLevel, logger.GetLevel())

	logger.Info().Str("bundle", "PROCESO-X-Y-2019-Z.rar").Msg("processing bundle")
	logger.Debug().Msg("hidden")

	output := buf.String()
	assert.Contains(t, output, `"bundle":"PROCESO-X-Y-2019-Z.rar"`)
	assert.Contains(t, output, `"message":"processing bundle"`)
	assert.NotContains(t, output, "hidden")
}

func TestNew_ConsoleWriterGetsReadableOutput(t *testing.T) {
	t.Parallel()

	var file, console strings.Builder
	ctx, err := New(context.Background(), nil, Config{
		Writer:  &file,
		Console: &console,
		Level:   DebugLevel,
	})
	require.NoError(t, err)

	Get(ctx).Info().Msg("hello")

	assert.Contains(t, file.String(), `"message":"hello"`)
	assert.Contains(t, console.String(), "hello")
	assert.NotContains(t, console.String(), `"message"`)
}

func TestNew_NoWriterNoFilesystem_ReturnsError(t *testing.T) {
	t.Parallel()

	ctx, err := New(context.Background(), nil, Config{Level: InfoLevel})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem required when no writer provided")
	assert.Nil(t, ctx)
}

func TestLogPath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	path, err := logPath(fs, "/var/log/demre/run.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/demre/run.log", path)

	exists, err := afero.DirExists(fs, "/var/log/demre")
	require.NoError(t, err)
	assert.True(t, exists)

	path, err = logPath(fs, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "demre.log"))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "empty", input: "", want: InfoLevel},
		{name: "debug", input: "debug", want: DebugLevel},
		{name: "warn", input: "warn", want: WarnLevel},
		{name: "invalid", input: "loud", want: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
