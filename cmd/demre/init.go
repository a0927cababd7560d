package main

import (
	"fmt"

	"github.com/datos-demre/demre/internal/app"
	"github.com/datos-demre/demre/internal/prompt"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// createInitCommand creates the init command.
func createInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long:  "Write the default configuration file, asking before overwriting an existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			fs := afero.NewOsFs()
			exists, err := afero.Exists(fs, configPath)
			if err != nil {
				return fmt.Errorf("failed to check config file: %w", err)
			}

			var p prompt.Prompter
			if exists && !force {
				p = prompt.NewLinerPrompter()
				defer func() { _ = p.Close() }()
			}

			written, err := app.Initialize(fs, configPath, force, p)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			if written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Kept existing %s\n", configPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file without asking")
	return cmd
}
