// Package presence tracks live movie event streams for the stream roster.
//
// The Tracker keeps an in-memory map of open subscriptions, updated by the
// server as streams open, emit events and close. It is exposed over
// GET /streams and drives the ffs_active_streams gauge.
package presence

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/ffs/internal/clock"
)

// Entry represents a single subscription's live state.
type Entry struct {
	SubscriptionID string     `json:"subscription_id"`
	MovieID        string     `json:"movie_id"`
	RemoteAddr     string     `json:"remote_addr,omitempty"`
	OpenedAt       time.Time  `json:"opened_at"`
	LastEventAt    *time.Time `json:"last_event_at,omitempty"` // nil until the first event
	EventsSent     int64      `json:"events_sent"`
	IdleSecs       float64    `json:"idle_secs"`     // seconds since last event (or open)
	DurationSecs   float64    `json:"duration_secs"` // seconds since open
}

// Stream identifies a subscription being opened.
type Stream struct {
	SubscriptionID string
	MovieID        string
	RemoteAddr     string
}

// Summary describes a subscription that has just closed.
type Summary struct {
	MovieID    string
	EventsSent int64
	Duration   time.Duration
}

// Tracker maintains an in-memory roster of open streams.
type Tracker struct {
	mu      sync.RWMutex
	streams map[string]*streamState
	clock   clock.Clock
}

type streamState struct {
	movieID     string
	remoteAddr  string
	openedAt    time.Time
	lastEventAt time.Time
	eventsSent  int64
}

// New creates a new tracker backed by the system clock.
func New() *Tracker {
	return NewWithClock(clock.NewSystem())
}

func NewWithClock(c clock.Clock) *Tracker {
	return &Tracker{
		streams: make(map[string]*streamState),
		clock:   c,
	}
}

// Open registers a new subscription. Reopening an existing id resets it.
func (t *Tracker) Open(s Stream) {
	if s.SubscriptionID == "" {
		return
	}
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.streams[s.SubscriptionID]; ok {
		slog.Warn("presence: subscription reopened", "subscription", s.SubscriptionID)
	}
	t.streams[s.SubscriptionID] = &streamState{
		movieID:    s.MovieID,
		remoteAddr: s.RemoteAddr,
		openedAt:   now,
	}
}

// RecordEvent notes that one more event was written to the subscription.
// Unknown ids are ignored.
func (t *Tracker) RecordEvent(subscriptionID string) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.streams[subscriptionID]
	if !ok {
		return
	}
	state.lastEventAt = now
	state.eventsSent++
}

// Close removes the subscription and reports what it delivered. The second
// result is false if the id was not open.
func (t *Tracker) Close(subscriptionID string) (Summary, bool) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.streams[subscriptionID]
	if !ok {
		return Summary{}, false
	}
	delete(t.streams, subscriptionID)
	return Summary{
		MovieID:    state.movieID,
		EventsSent: state.eventsSent,
		Duration:   now.Sub(state.openedAt),
	}, true
}

// Len returns the number of open subscriptions.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.streams)
}

// Roster returns a snapshot of open subscriptions, most recently opened first.
// A non-empty movieID restricts the roster to streams of that movie.
func (t *Tracker) Roster(movieID string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.clock.Now()
	entries := make([]Entry, 0, len(t.streams))

	for id, state := range t.streams {
		if movieID != "" && state.movieID != movieID {
			continue
		}
		last := state.openedAt
		var lastEventAt *time.Time
		if !state.lastEventAt.IsZero() {
			last = state.lastEventAt
			lastEventAt = &last
		}
		entries = append(entries, Entry{
			SubscriptionID: id,
			MovieID:        state.movieID,
			RemoteAddr:     state.remoteAddr,
			OpenedAt:       state.openedAt,
			LastEventAt:    lastEventAt,
			EventsSent:     state.eventsSent,
			IdleSecs:       now.Sub(last).Seconds(),
			DurationSecs:   now.Sub(state.openedAt).Seconds(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].OpenedAt.Equal(entries[j].OpenedAt) {
			return entries[i].SubscriptionID < entries[j].SubscriptionID
		}
		return entries[i].OpenedAt.After(entries[j].OpenedAt)
	})

	return entries
}
