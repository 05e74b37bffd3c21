package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/ffs/internal/client"
	"github.com/alfredjeanlab/ffs/internal/ui"
)

var (
	httpURL    string
	jsonOutput bool

	moviesClient client.MoviesClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("FFS_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("FFS_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

// noClient is used by commands that never talk to the HTTP API.
func noClient(*cobra.Command, []string) error { return nil }

var rootCmd = &cobra.Command{
	Use:          "ffs <command>",
	Short:        "Movie catalog service and client",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		moviesClient = client.NewHTTPClient(httpURL, defaultToken())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if moviesClient != nil {
			moviesClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "catalog", Title: "Catalog:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	// Catalog
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(streamsCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
