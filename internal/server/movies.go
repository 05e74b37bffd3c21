package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// ListMovies returns every movie in the catalog.
func (s *MoviesServer) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	movies, err := s.store.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetMovie returns the movie with the given id, or nil if there is none.
func (s *MoviesServer) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	movie, err := s.store.GetMovie(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	return movie, nil
}

// StreamMovieEvents resolves the movie once and returns it together with a
// channel that receives one event per interval until ctx is done. The first
// event comes after one full interval. If the movie does not exist the
// returned movie is nil and the channel is already closed.
func (s *MoviesServer) StreamMovieEvents(ctx context.Context, movieID string) (*model.Movie, <-chan model.MovieEvent, error) {
	movie, err := s.GetMovie(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	if movie == nil {
		ch := make(chan model.MovieEvent)
		close(ch)
		return nil, ch, nil
	}
	return movie, s.tick(ctx, *movie, s.eventInterval), nil
}

// tick emits movie paired with the current time on every interval. The
// channel is closed once ctx is done.
func (s *MoviesServer) tick(ctx context.Context, movie model.Movie, interval time.Duration) <-chan model.MovieEvent {
	ch := make(chan model.MovieEvent)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evt := model.MovieEvent{Movie: movie, When: s.clock.Now()}
				select {
				case ch <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}
