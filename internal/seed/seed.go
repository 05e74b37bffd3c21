// Package seed resets the catalog to a fixed set of sample movies.
package seed

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/ffs/internal/events"
	"github.com/alfredjeanlab/ffs/internal/metrics"
	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/store"
)

// Seeder clears the catalog and saves model.SeedTitles.
type Seeder struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
	titles    []string
}

func New(s store.Store, p events.Publisher, logger *slog.Logger) *Seeder {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: s, publisher: p, logger: logger, titles: model.SeedTitles}
}

// Run deletes every movie and then saves one fresh movie per seed title.
// Failures are logged and never returned. If the delete fails nothing is
// saved; a failed save does not stop the remaining ones. Run returns the
// movies that were saved.
func (s *Seeder) Run(ctx context.Context) []*model.Movie {
	deleted, err := s.store.DeleteAllMovies(ctx)
	if err != nil {
		s.logger.Error("seed: clearing catalog", "error", err)
		return nil
	}
	s.logger.Info("seed: catalog cleared", "deleted", deleted)
	s.publish(ctx, events.TopicCatalogCleared, events.CatalogCleared{Deleted: deleted})

	saved := make([]*model.Movie, 0, len(s.titles))
	for _, title := range s.titles {
		movie := &model.Movie{Title: title}
		err := s.store.SaveMovie(ctx, movie)
		metrics.RecordSeedMovie(err)
		if err != nil {
			s.logger.Error("seed: saving movie", "title", title, "error", err)
			continue
		}
		s.logger.Info("seed: saved movie", "id", movie.ID, "title", movie.Title)
		s.publish(ctx, events.TopicMovieCreated, events.MovieCreated{Movie: movie})
		saved = append(saved, movie)
	}
	return saved
}

func (s *Seeder) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("seed: publishing event", "topic", topic, "error", err)
	}
}
