package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// recordingPublisher captures published topics for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

// newTestMoviesServer creates a MoviesServer with a mock store and a fast
// event interval.
func newTestMoviesServer(interval time.Duration) (*MoviesServer, *mockStore, *recordingPublisher) {
	ms := newMockStore()
	pub := &recordingPublisher{}
	s := NewMoviesServer(ms, pub)
	s.eventInterval = interval
	return s, ms, pub
}

// collect reads events until the channel closes or timeout elapses.
func collect(t *testing.T, ch <-chan model.MovieEvent, timeout time.Duration) []model.MovieEvent {
	t.Helper()
	var out []model.MovieEvent
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, evt)
		case <-deadline:
			t.Fatalf("stream did not complete within %v (got %d events)", timeout, len(out))
		}
	}
}

func TestListMovies_ReturnsStoredSet(t *testing.T) {
	s, ms, _ := newTestMoviesServer(time.Second)
	want := map[string]string{}
	for _, title := range []string{"Alien", "Brazil", "Casablanca"} {
		want[ms.add(title)] = title
	}

	got, err := s.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d movies, got %d", len(want), len(got))
	}
	for _, mv := range got {
		if want[mv.ID] != mv.Title {
			t.Errorf("unexpected movie %+v", mv)
		}
	}
}

func TestListMovies_Empty(t *testing.T) {
	s, _, _ := newTestMoviesServer(time.Second)
	got, err := s.ListMovies(context.Background())
	if err != nil {
		t.Fatalf("ListMovies: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no movies, got %d", len(got))
	}
}

func TestListMovies_StoreError(t *testing.T) {
	s, ms, _ := newTestMoviesServer(time.Second)
	ms.listErr = errors.New("connection refused")

	if _, err := s.ListMovies(context.Background()); !errors.Is(err, ms.listErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGetMovie(t *testing.T) {
	s, ms, _ := newTestMoviesServer(time.Second)
	id := ms.add("Test1")

	mv, err := s.GetMovie(context.Background(), id)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if mv == nil || mv.ID != id || mv.Title != "Test1" {
		t.Fatalf("unexpected movie %+v", mv)
	}
}

func TestGetMovie_AbsentIsNotAnError(t *testing.T) {
	s, _, _ := newTestMoviesServer(time.Second)

	mv, err := s.GetMovie(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mv != nil {
		t.Fatalf("expected nil movie, got %+v", mv)
	}
}

func TestGetMovie_StoreError(t *testing.T) {
	s, ms, _ := newTestMoviesServer(time.Second)
	ms.getErr = errors.New("timeout")

	if _, err := s.GetMovie(context.Background(), "x"); !errors.Is(err, ms.getErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestStreamMovieEvents_OneEventPerSecond(t *testing.T) {
	if testing.Short() {
		t.Skip("takes several seconds")
	}
	s, ms, _ := newTestMoviesServer(DefaultEventInterval)
	id := ms.add("Test1")

	ctx, cancel := context.WithTimeout(context.Background(), 3200*time.Millisecond)
	defer cancel()

	_, ch, err := s.StreamMovieEvents(ctx, id)
	if err != nil {
		t.Fatalf("StreamMovieEvents: %v", err)
	}
	got := collect(t, ch, 5*time.Second)

	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, evt := range got {
		if evt.Movie.ID != id || evt.Movie.Title != "Test1" {
			t.Errorf("event %d: unexpected movie %+v", i, evt.Movie)
		}
		if i == 0 {
			continue
		}
		gap := evt.When.Sub(got[i-1].When)
		if gap < 800*time.Millisecond || gap > 1200*time.Millisecond {
			t.Errorf("event %d: gap %v, want ~1s", i, gap)
		}
	}
}

func TestStreamMovieEvents_FirstEventAfterOneInterval(t *testing.T) {
	s, ms, _ := newTestMoviesServer(200 * time.Millisecond)
	id := ms.add("Test1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	_, ch, err := s.StreamMovieEvents(ctx, id)
	if err != nil {
		t.Fatalf("StreamMovieEvents: %v", err)
	}
	select {
	case <-ch:
		if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
			t.Fatalf("first event after %v, want about one interval", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first event")
	}
}

func TestStreamMovieEvents_UnknownMovie(t *testing.T) {
	s, _, _ := newTestMoviesServer(10 * time.Millisecond)

	mv, ch, err := s.StreamMovieEvents(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mv != nil {
		t.Fatalf("expected nil movie, got %+v", mv)
	}
	if got := collect(t, ch, time.Second); len(got) != 0 {
		t.Fatalf("expected 0 events, got %d", len(got))
	}
}

func TestStreamMovieEvents_StoreError(t *testing.T) {
	s, ms, _ := newTestMoviesServer(10 * time.Millisecond)
	ms.getErr = errors.New("connection reset")

	mv, ch, err := s.StreamMovieEvents(context.Background(), "x")
	if !errors.Is(err, ms.getErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if mv != nil || ch != nil {
		t.Fatal("expected nil movie and channel on error")
	}
}

func TestStreamMovieEvents_CancelStopsStream(t *testing.T) {
	s, ms, _ := newTestMoviesServer(10 * time.Millisecond)
	id := ms.add("Test1")

	ctx, cancel := context.WithCancel(context.Background())
	_, ch, err := s.StreamMovieEvents(ctx, id)
	if err != nil {
		t.Fatalf("StreamMovieEvents: %v", err)
	}

	for i := range 2 {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
	cancel()

	// At most one event already in flight may still arrive.
	if extra := collect(t, ch, time.Second); len(extra) > 1 {
		t.Fatalf("expected stream to stop after cancel, got %d more events", len(extra))
	}
}

func TestStreamMovieEvents_ResolvesOnce(t *testing.T) {
	s, ms, _ := newTestMoviesServer(10 * time.Millisecond)
	id := ms.add("Original")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	mv, ch, err := s.StreamMovieEvents(ctx, id)
	if err != nil {
		t.Fatalf("StreamMovieEvents: %v", err)
	}
	if mv == nil || mv.ID != id || mv.Title != "Original" {
		t.Fatalf("resolved movie = %+v", mv)
	}
	// Changes after the stream starts are not visible to it.
	ms.rename(id, "Renamed")

	got := collect(t, ch, time.Second)
	if len(got) == 0 {
		t.Fatal("expected events")
	}
	for i, evt := range got {
		if evt.Movie.Title != "Original" {
			t.Errorf("event %d: title %q, want %q", i, evt.Movie.Title, "Original")
		}
		if i > 0 && !evt.When.After(got[i-1].When) {
			t.Errorf("event %d: when %v not after %v", i, evt.When, got[i-1].When)
		}
	}
	if calls := ms.getCalls(); calls != 1 {
		t.Errorf("expected 1 store lookup, got %d", calls)
	}
}

func TestStreamMovieEvents_EachSubscriptionResolvesAgain(t *testing.T) {
	s, ms, _ := newTestMoviesServer(10 * time.Millisecond)
	id := ms.add("Original")

	first, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	_, ch1, err := s.StreamMovieEvents(first, id)
	if err != nil {
		t.Fatalf("first stream: %v", err)
	}

	ms.rename(id, "Renamed")

	second, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()
	_, ch2, err := s.StreamMovieEvents(second, id)
	if err != nil {
		t.Fatalf("second stream: %v", err)
	}

	for _, tc := range []struct {
		ch    <-chan model.MovieEvent
		title string
	}{{ch1, "Original"}, {ch2, "Renamed"}} {
		select {
		case evt := <-tc.ch:
			if evt.Movie.Title != tc.title {
				t.Errorf("title %q, want %q", evt.Movie.Title, tc.title)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	if calls := ms.getCalls(); calls != 2 {
		t.Errorf("expected 2 store lookups, got %d", calls)
	}
}
