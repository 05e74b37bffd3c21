package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List movies in the catalog",
	GroupID: "catalog",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		movies, err := moviesClient.ListMovies(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing movies: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), movies)
		}
		return printMovieTable(cmd.OutOrStdout(), movies)
	},
}
