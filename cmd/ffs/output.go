package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/presence"
	"github.com/alfredjeanlab/ffs/internal/ui"
)

const timeFormat = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printMovie(w io.Writer, m *model.Movie) {
	fmt.Fprintf(w, "ID:     %s\n", ui.RenderID(m.ID))
	fmt.Fprintf(w, "Title:  %s\n", ui.RenderTitle(m.Title))
}

func printMovieTable(w io.Writer, movies []*model.Movie) error {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE")
	for _, m := range movies {
		fmt.Fprintf(tw, "%s\t%s\n", ui.RenderID(m.ID), ui.RenderTitle(m.Title))
	}
	return tw.Flush()
}

func printMovieEvent(w io.Writer, ev *model.MovieEvent) {
	fmt.Fprintf(w, "[%s] %s %s\n",
		ev.When.Local().Format(timeFormat),
		ui.RenderID(ev.Movie.ID),
		ui.RenderTitle(ev.Movie.Title),
	)
}

func printStreamTable(w io.Writer, entries []presence.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No active streams.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBSCRIPTION\tMOVIE\tREMOTE\tEVENTS\tOPEN FOR")
	for _, e := range entries {
		open := time.Duration(e.DurationSecs * float64(time.Second)).Round(time.Second)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			ui.RenderID(e.SubscriptionID), e.MovieID, e.RemoteAddr, e.EventsSent, open)
	}
	return tw.Flush()
}
