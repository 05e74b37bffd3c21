package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthPingTimeout bounds the store ping behind GET /health.
const healthPingTimeout = 2 * time.Second

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /health) must include
// a valid Authorization: Bearer <token> header.
func (s *MoviesServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /movies", s.handleListMovies)
	mux.HandleFunc("GET /movies/{movieId}", s.handleGetMovie)
	mux.HandleFunc("GET /movies/{movieId}/events", s.handleMovieEvents)
	mux.HandleFunc("GET /streams", s.handleStreamRoster)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return MetricsMiddleware(AuthMiddleware(authToken, mux))
}

// handleListMovies handles GET /movies.
func (s *MoviesServer) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.ListMovies(r.Context())
	if err != nil {
		slog.Error("listing movies", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

// handleGetMovie handles GET /movies/{movieId}.
func (s *MoviesServer) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("movieId")
	movie, err := s.GetMovie(r.Context(), id)
	if err != nil {
		slog.Error("getting movie", "movie_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get movie")
		return
	}
	if movie == nil {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// handleStreamRoster handles GET /streams. An optional movie_id query
// parameter restricts the roster to one movie.
func (s *MoviesServer) handleStreamRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Presence.Roster(r.URL.Query().Get("movie_id")))
}

// handleHealth handles GET /health.
func (s *MoviesServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		slog.Warn("health check: store ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
