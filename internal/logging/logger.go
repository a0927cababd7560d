package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/datos-demre/demre/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// Log levels - aliases for zerolog levels
const (
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
)

// Config defines the configuration for logger creation
type Config struct {
	Writer io.Writer
	// Console, when set, also receives human-readable output.
	Console io.Writer
	// Path overrides the XDG log file location.
	Path  string
	Level zerolog.Level
}

// New creates a new context with a logger attached
// For production: provide fs, leave Writer nil for file logging
// For tests: provide a custom Writer (like strings.Builder) for in-memory logging
func New(ctx context.Context, fs afero.Fs, config Config) (context.Context, error) {
	var writer io.Writer

	if config.Writer != nil {
		// Use provided writer (typically for tests)
		writer = config.Writer
	} else {
		if fs == nil {
			return nil, errors.New("filesystem required when no writer provided")
		}

		logFile, err := logPath(fs, config.Path)
		if err != nil {
			return nil, err
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	if config.Console != nil {
		writer = zerolog.MultiLevelWriter(writer, zerolog.ConsoleWriter{Out: config.Console})
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx), nil
}

func logPath(fs afero.Fs, override string) (string, error) {
	if override == "" {
		path, err := storage.New(fs).GetLogPath()
		if err != nil {
			return "", fmt.Errorf("failed to get log path: %w", err)
		}
		return path, nil
	}

	if err := fs.MkdirAll(filepath.Dir(override), 0o750); err != nil {
		return "", fmt.Errorf("failed to create log directory for %s: %w", override, err)
	}
	return override, nil
}

// ParseLevel converts a config level name, defaulting to info when empty.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Get retrieves the logger from the provided context
// Returns the logger associated with the context, or a disabled logger if none exists
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
