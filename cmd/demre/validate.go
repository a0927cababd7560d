package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createValidateCommand creates the validate command.
func createValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long:  "Validate configuration file and the category table it defines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, application, err := createAppFromCommand(cmd)
			if err != nil {
				return fmt.Errorf("validation error: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"Configuration is valid: %d category tokens, %d categories, bundle extensions %v\n",
				application.Table.Len(), len(application.Table.Names()), application.Config.Bundles.Extensions)
			return nil
		},
	}
}
