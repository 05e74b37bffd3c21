package server

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/alfredjeanlab/ffs/internal/idgen"
	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/store"
)

var _ store.Store = (*mockStore)(nil)

// mockStore is an in-memory store.Store. Streams read it from their own
// goroutines, so access is locked.
type mockStore struct {
	mu     sync.Mutex
	movies map[string]*model.Movie
	gets   int

	listErr error
	getErr  error
	pingErr error
}

func newMockStore() *mockStore {
	return &mockStore{movies: make(map[string]*model.Movie)}
}

// add stores a movie and returns its id.
func (m *mockStore) add(title string) string {
	mv := &model.Movie{Title: title}
	_ = m.SaveMovie(context.Background(), mv)
	return mv.ID
}

func (m *mockStore) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

func (m *mockStore) ListMovies(_ context.Context) ([]*model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Movie, 0, len(m.movies))
	for _, mv := range m.movies {
		clone := *mv
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *mockStore) GetMovie(_ context.Context, id string) (*model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	mv, ok := m.movies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *mv
	return &clone, nil
}

func (m *mockStore) SaveMovie(_ context.Context, movie *model.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if movie.ID == "" {
		movie.ID = idgen.MovieID()
	}
	clone := *movie
	m.movies[movie.ID] = &clone
	return nil
}

func (m *mockStore) DeleteAllMovies(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.movies))
	m.movies = make(map[string]*model.Movie)
	return n, nil
}

func (m *mockStore) rename(id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movies[id].Title = title
}

func (m *mockStore) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingErr
}

func (m *mockStore) setPingErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

func (m *mockStore) Close() error { return nil }
