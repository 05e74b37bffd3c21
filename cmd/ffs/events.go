package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/ffs/internal/client"
	"github.com/alfredjeanlab/ffs/internal/model"
)

var eventsCmd = &cobra.Command{
	Use:     "events <id>",
	Short:   "Follow the event stream of a movie",
	GroupID: "catalog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		received := 0
		err := moviesClient.StreamEvents(ctx, args[0], func(ev *model.MovieEvent) error {
			received++
			if jsonOutput {
				if err := printJSON(out, ev); err != nil {
					return err
				}
			} else {
				printMovieEvent(out, ev)
			}
			if count > 0 && received >= count {
				return client.ErrStopStream
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("streaming events: %w", err)
		}
		if received == 0 && !jsonOutput {
			fmt.Fprintf(cmd.ErrOrStderr(), "stream for %q ended without events\n", args[0])
		}
		return nil
	},
}

var streamsCmd = &cobra.Command{
	Use:     "streams",
	Short:   "List active event stream subscriptions",
	GroupID: "catalog",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := moviesClient.Streams(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing streams: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		return printStreamTable(cmd.OutOrStdout(), entries)
	},
}

func init() {
	eventsCmd.Flags().IntP("count", "n", 0, "stop after N events (0 = follow until interrupted)")
}
