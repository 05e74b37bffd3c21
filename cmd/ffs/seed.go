package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/ffs/internal/config"
	"github.com/alfredjeanlab/ffs/internal/events"
	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/seed"
	"github.com/alfredjeanlab/ffs/internal/store/postgres"
)

var seedCmd = &cobra.Command{
	Use:               "seed",
	Short:             "Reset the catalog to the sample movies",
	GroupID:           "system",
	Args:              cobra.NoArgs,
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()

		var publisher events.Publisher = &events.NoopPublisher{}
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				logger.Warn("events disabled for seed", "err", err)
			} else {
				publisher = pub
			}
		}
		defer publisher.Close()

		saved := seed.New(store, publisher, logger).Run(cmd.Context())
		if len(saved) < len(model.SeedTitles) {
			return fmt.Errorf("seeded %d of %d movies", len(saved), len(model.SeedTitles))
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), saved)
		}
		return printMovieTable(cmd.OutOrStdout(), saved)
	},
}
