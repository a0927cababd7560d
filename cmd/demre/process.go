package main

import (
	"fmt"

	"github.com/datos-demre/demre/internal/app"
	"github.com/spf13/cobra"
)

// createProcessCommand creates the process command.
func createProcessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Extract and rename every bundle",
		Long:  "Extract every bundle in the archives folder and rename its spreadsheets into per-year folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, application, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			summary, err := application.Process(ctx)
			if err != nil {
				return err
			}

			quiet, _ := cmd.Flags().GetBool("quiet")
			if !quiet {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), app.FormatSummary(summary))
			}
			return nil
		},
	}
}
