package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/ffs/internal/client"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a movie",
	GroupID: "catalog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		movie, err := moviesClient.GetMovie(cmd.Context(), args[0])
		if client.IsNotFound(err) {
			return fmt.Errorf("movie %q not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("getting movie: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), movie)
		}
		printMovie(cmd.OutOrStdout(), movie)
		return nil
	},
}
