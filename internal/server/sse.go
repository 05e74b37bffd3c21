package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/ffs/internal/events"
	"github.com/alfredjeanlab/ffs/internal/idgen"
	"github.com/alfredjeanlab/ffs/internal/metrics"
	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/presence"
)

// sseEventName is the SSE event field of every movie event.
const sseEventName = "movie"

// handleMovieEvents handles GET /movies/{movieId}/events (SSE endpoint).
// An unknown movie yields an empty stream that ends immediately.
func (s *MoviesServer) handleMovieEvents(w http.ResponseWriter, r *http.Request) {
	// Ensure response supports flushing (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	movieID := r.PathValue("movieId")

	subID, err := idgen.SubscriptionID()
	if err != nil {
		slog.Error("generating subscription id", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to open stream")
		return
	}

	movie, stream, err := s.StreamMovieEvents(ctx, movieID)
	if err != nil {
		slog.Error("resolving movie for stream", "movie_id", movieID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve movie")
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if movie == nil {
		slog.Info("stream requested for unknown movie", "movie_id", movieID)
		return
	}

	s.openStream(r, subID, movieID)
	defer s.closeStream(r, subID)

	// Stream events until the client disconnects.
	var seq uint64
	for evt := range stream {
		seq++
		if err := writeSSEEvent(w, seq, &evt); err != nil {
			slog.Warn("writing stream event", "subscription", subID, "error", err)
			return
		}
		flusher.Flush()
		s.Presence.RecordEvent(subID)
		metrics.RecordStreamEvent()
	}
}

func (s *MoviesServer) openStream(r *http.Request, subID, movieID string) {
	s.Presence.Open(presence.Stream{
		SubscriptionID: subID,
		MovieID:        movieID,
		RemoteAddr:     r.RemoteAddr,
	})
	metrics.TrackStream(true)
	slog.Info("stream opened", "subscription", subID, "movie_id", movieID, "remote", r.RemoteAddr)
	s.publish(r.Context(), events.TopicStreamOpened, events.StreamOpened{
		SubscriptionID: subID,
		MovieID:        movieID,
		RemoteAddr:     r.RemoteAddr,
	})
}

func (s *MoviesServer) closeStream(r *http.Request, subID string) {
	metrics.TrackStream(false)
	sum, ok := s.Presence.Close(subID)
	if !ok {
		return
	}
	slog.Info("stream closed",
		"subscription", subID,
		"movie_id", sum.MovieID,
		"events", sum.EventsSent,
		"duration", sum.Duration)
	// The request context is already done here.
	s.publish(context.WithoutCancel(r.Context()), events.TopicStreamClosed, events.StreamClosed{
		SubscriptionID: subID,
		MovieID:        sum.MovieID,
		EventsSent:     sum.EventsSent,
		DurationSecs:   sum.Duration.Seconds(),
	})
}

// writeSSEEvent writes a single SSE event to the writer.
func writeSSEEvent(w http.ResponseWriter, id uint64, evt *model.MovieEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", id, sseEventName, data)
	return err
}
