package main

import (
	"fmt"

	"github.com/datos-demre/demre/internal/app"
	"github.com/spf13/cobra"
)

// createStatusCommand creates the status command.
func createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show processed years",
		Long:  "Show the data files and dictionaries already placed in each year folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, application, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			report, err := application.Status()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), app.FormatStatus(report))
			if err != nil {
				return fmt.Errorf("failed to print status: %w", err)
			}
			return nil
		},
	}
}
