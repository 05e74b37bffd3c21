package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/ffs/internal/events"
	"github.com/alfredjeanlab/ffs/internal/ui"
)

func defaultNATSURL() string {
	if s := os.Getenv("FFS_NATS_URL"); s != "" {
		return s
	}
	if u := activeRemoteNATSURL(); u != "" {
		return u
	}
	return nats.DefaultURL
}

var tailCmd = &cobra.Command{
	Use:               "tail",
	Short:             "Print catalog and stream events published on NATS",
	GroupID:           "system",
	Args:              cobra.NoArgs,
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		topic, _ := cmd.Flags().GetString("topic")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				slog.Warn("nats: disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				slog.Info("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				if err := printEnvelope(out, data, jsonOutput); err != nil {
					slog.Warn("skipping malformed event", "err", err)
				}
			}
		}
	},
}

// printEnvelope writes one bus message, either raw or as a single line of
// time, topic and payload.
func printEnvelope(w io.Writer, data []byte, raw bool) error {
	env, err := events.DecodeEnvelope(data)
	if err != nil {
		return err
	}
	if raw {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err = fmt.Fprintf(w, "[%s] %s %s\n",
		env.OccurredAt.Local().Format(timeFormat),
		ui.RenderTitle(env.Topic),
		string(env.Payload),
	)
	return err
}

func init() {
	tailCmd.Flags().String("nats-url", defaultNATSURL(), "NATS server URL")
	tailCmd.Flags().String("topic", "movies.>", "subject to subscribe to (wildcards allowed)")
}
