// Package app wires configuration, paths, logging and the processor together
// for the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/datos-demre/demre/internal/archive"
	"github.com/datos-demre/demre/internal/categories"
	"github.com/datos-demre/demre/internal/config"
	"github.com/datos-demre/demre/internal/inventory"
	"github.com/datos-demre/demre/internal/logging"
	"github.com/datos-demre/demre/internal/paths"
	"github.com/datos-demre/demre/internal/processor"
	"github.com/datos-demre/demre/internal/progress"
	"github.com/datos-demre/demre/internal/project"
	"github.com/spf13/afero"
)

// Options describes how the App is built from command line flags.
type Options struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	// LogWriter replaces the log file, mainly for tests.
	LogWriter  io.Writer
	ConfigPath string
	Root       string
	// ConfigExplicit is set when the user named the config file, in which
	// case a missing file is an error.
	ConfigExplicit bool
	Verbose        bool
	Quiet          bool
}

// App holds everything a command needs after startup.
type App struct {
	fs       afero.Fs
	out      io.Writer
	Config   *config.Config
	Layout   *paths.Layout
	Table    *categories.Table
	Rules    categories.Rules
	Registry *archive.Registry
	quiet    bool
}

// New loads the configuration, resolves the project root and attaches a
// logger to the returned context.
func New(ctx context.Context, opts Options) (context.Context, *App, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := LoadConfig(opts.Fs, opts.ConfigPath, opts.ConfigExplicit)
	if err != nil {
		return ctx, nil, err
	}

	ctx, err = setupLogging(ctx, opts, cfg)
	if err != nil {
		return ctx, nil, err
	}

	root, err := resolveRoot(opts.Root, cfg.Root)
	if err != nil {
		return ctx, nil, err
	}

	layout, err := paths.New(root, cfg.Folders)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to build paths: %w", err)
	}

	table, err := categories.New(cfg.Categories)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to build category table: %w", err)
	}

	logging.Get(ctx).Debug().
		Str("root", layout.Root).
		Str("config", opts.ConfigPath).
		Int("categories", table.Len()).
		Msg("application initialized")

	return ctx, &App{
		fs:       opts.Fs,
		out:      opts.Stdout,
		Config:   cfg,
		Layout:   layout,
		Table:    table,
		Rules:    categories.RulesFromConfig(cfg.Entries),
		Registry: archive.DefaultRegistry(),
		quiet:    opts.Quiet,
	}, nil
}

// LoadConfig reads the config file. A missing file falls back to the
// built-in defaults unless the path was given explicitly.
func LoadConfig(fs afero.Fs, path string, explicit bool) (*config.Config, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file %s: %w", path, err)
	}
	if !exists {
		if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadFs(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

func setupLogging(ctx context.Context, opts Options, cfg *config.Config) (context.Context, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse log level: %w", err)
	}

	logConfig := logging.Config{
		Writer: opts.LogWriter,
		Path:   cfg.Logging.File,
		Level:  level,
	}
	if opts.Verbose {
		logConfig.Console = opts.Stderr
		logConfig.Level = logging.DebugLevel
	}

	ctx, err = logging.New(ctx, opts.Fs, logConfig)
	if err != nil {
		return ctx, fmt.Errorf("failed to set up logging: %w", err)
	}
	return ctx, nil
}

// resolveRoot picks the flag, then the config value, then the detected
// project root.
func resolveRoot(flagRoot, configRoot string) (string, error) {
	if flagRoot != "" {
		return flagRoot, nil
	}
	if configRoot != "" {
		return configRoot, nil
	}
	root, err := project.FindRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}
	return root, nil
}

// Process extracts and renames every bundle in the archives folder.
func (a *App) Process(ctx context.Context) (*processor.Summary, error) {
	var reporter progress.Reporter = progress.NewTerminal(a.out)
	if a.quiet {
		reporter = progress.Nop{}
	}

	proc, err := processor.New(processor.Options{
		Fs:       a.fs,
		Layout:   a.Layout,
		Table:    a.Table,
		Registry: a.Registry,
		Reporter: reporter,
		Rules:    a.Rules,
		Bundles:  a.Config.Bundles,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	summary, err := proc.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Get(ctx).Warn().Msg("processing cancelled")
		}
		return summary, fmt.Errorf("processing failed: %w", err)
	}
	return summary, nil
}

// Status scans the output folders.
func (a *App) Status() (*inventory.Report, error) {
	report, err := inventory.NewScanner(a.fs, a.Layout, a.Table, a.Rules).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan outputs: %w", err)
	}
	return report, nil
}
