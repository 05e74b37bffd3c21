package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// Event topic constants
const (
	TopicMovieCreated   = "movies.movie.created"
	TopicCatalogCleared = "movies.catalog.cleared"
	TopicStreamOpened   = "movies.stream.opened"
	TopicStreamClosed   = "movies.stream.closed"
)

// Envelope is the wire format of every message published to the bus.
type Envelope struct {
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Event types

type MovieCreated struct {
	Movie *model.Movie `json:"movie"`
}

type CatalogCleared struct {
	Deleted int64 `json:"deleted"`
}

type StreamOpened struct {
	SubscriptionID string `json:"subscription_id"`
	MovieID        string `json:"movie_id"`
	RemoteAddr     string `json:"remote_addr,omitempty"`
}

type StreamClosed struct {
	SubscriptionID string  `json:"subscription_id"`
	MovieID        string  `json:"movie_id"`
	EventsSent     int64   `json:"events_sent"`
	DurationSecs   float64 `json:"duration_secs"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NewEnvelope marshals event and wraps it for publishing on topic.
func NewEnvelope(topic string, event any, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Topic: topic, OccurredAt: at.UTC(), Payload: payload})
}

// DecodeEnvelope parses a raw bus message.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
