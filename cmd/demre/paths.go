package main

import (
	"fmt"

	"github.com/datos-demre/demre/internal/app"
	"github.com/spf13/cobra"
)

// createPathsCommand creates the paths command.
func createPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved folder layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, application, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), app.FormatPaths(application.Layout))
			return nil
		},
	}
}
