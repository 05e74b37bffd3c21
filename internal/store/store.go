package store

import (
	"context"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// Store defines the persistence interface for the movie catalog.
type Store interface {
	// ListMovies returns every stored movie.
	ListMovies(ctx context.Context) ([]*model.Movie, error)
	// GetMovie returns sql.ErrNoRows when no movie has the given id.
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	// SaveMovie inserts or replaces a movie, assigning an id when it is empty.
	SaveMovie(ctx context.Context, movie *model.Movie) error
	// DeleteAllMovies removes every movie and returns how many were removed.
	DeleteAllMovies(ctx context.Context) (int64, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
