package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/ffs/internal/store"
)

// exportVersion is the JSONL format version written in the header.
const exportVersion = "1"

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	MovieCount int       `json:"movie_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every movie in the store as JSONL to w, sorted by ID.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	movies, err := s.ListMovies(ctx)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}

	sort.Slice(movies, func(i, j int) bool {
		return movies[i].ID < movies[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    exportVersion,
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		MovieCount: len(movies),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, m := range movies {
		if err := enc.Encode(record{Type: "movie", Data: m}); err != nil {
			return fmt.Errorf("encode movie %s: %w", m.ID, err)
		}
	}

	return nil
}
