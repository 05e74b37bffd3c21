// Package client provides a transport-agnostic interface for the ffs movie
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/presence"
)

// MoviesClient is the interface that all ffs CLI commands use to communicate
// with the server.
type MoviesClient interface {
	// Catalog
	ListMovies(ctx context.Context) ([]*model.Movie, error)
	GetMovie(ctx context.Context, id string) (*model.Movie, error)

	// StreamEvents calls fn for every event of the movie's stream until the
	// stream ends, ctx is done, or fn returns an error.
	StreamEvents(ctx context.Context, id string, fn func(*model.MovieEvent) error) error

	// Streams returns the server's roster of open event streams.
	Streams(ctx context.Context) ([]presence.Entry, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// ErrStopStream may be returned by a StreamEvents callback to end the stream
// without error.
var ErrStopStream = errors.New("stop stream")

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
