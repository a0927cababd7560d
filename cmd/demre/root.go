package main

import (
	"context"
	"fmt"

	"github.com/datos-demre/demre/internal/app"
	"github.com/datos-demre/demre/internal/constants"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// createNewRootCommand creates the main root command that shows help by default.
func createNewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Prepare DEMRE transparency-portal bundles",
		Long:          "Extract DEMRE admission bundles and rename their spreadsheets into per-year folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Show help when run without subcommands
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", constants.ConfigFilename, "Path to config file")
	flags.StringP("root", "r", "", "Project root (defaults to config root or detected project)")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr")
	flags.BoolP("quiet", "q", false, "Suppress progress output")

	rootCmd.AddCommand(
		createProcessCommand(),
		createStatusCommand(),
		createPathsCommand(),
		createInitCommand(),
		createValidateCommand(),
	)

	return rootCmd
}

// optionsFromCommand reads the persistent flags into app options.
func optionsFromCommand(cmd *cobra.Command) (app.Options, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return app.Options{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	root, err := flags.GetString("root")
	if err != nil {
		return app.Options{}, fmt.Errorf("failed to get root flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return app.Options{}, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return app.Options{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	return app.Options{
		Fs:             afero.NewOsFs(),
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		ConfigPath:     configPath,
		ConfigExplicit: flags.Changed("config"),
		Root:           root,
		Verbose:        verbose,
		Quiet:          quiet,
	}, nil
}

// createAppFromCommand builds the App from the command's flags.
func createAppFromCommand(cmd *cobra.Command) (context.Context, *app.App, error) {
	opts, err := optionsFromCommand(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx, application, err := app.New(commandContext(cmd), opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return ctx, application, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
