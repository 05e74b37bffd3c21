package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/ffs/internal/clock"
	"github.com/alfredjeanlab/ffs/internal/events"
	"github.com/alfredjeanlab/ffs/internal/presence"
	"github.com/alfredjeanlab/ffs/internal/store"
)

// DefaultEventInterval is the cadence of movie event streams.
const DefaultEventInterval = time.Second

// MoviesServer serves the movie catalog and its event streams.
type MoviesServer struct {
	store     store.Store
	publisher events.Publisher
	clock     clock.Clock
	Presence  *presence.Tracker

	// eventInterval is the delay before each stream event, including the first.
	eventInterval time.Duration
}

// NewMoviesServer returns a new MoviesServer backed by the given store and publisher.
func NewMoviesServer(s store.Store, p events.Publisher) *MoviesServer {
	c := clock.NewSystem()
	return &MoviesServer{
		store:         s,
		publisher:     p,
		clock:         c,
		Presence:      presence.NewWithClock(c),
		eventInterval: DefaultEventInterval,
	}
}

// publish sends an event to the bus. It is best-effort; failures are logged
// but do not block the caller.
func (s *MoviesServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
