package sync

import (
	"context"
	"database/sql"

	"github.com/alfredjeanlab/ffs/internal/model"
	"github.com/alfredjeanlab/ffs/internal/store"
)

var _ store.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	movies  map[string]*model.Movie
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{movies: make(map[string]*model.Movie)}
}

func (m *mockStore) ListMovies(_ context.Context) ([]*model.Movie, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*model.Movie, 0, len(m.movies))
	for _, mv := range m.movies {
		out = append(out, mv)
	}
	return out, nil
}

func (m *mockStore) GetMovie(_ context.Context, id string) (*model.Movie, error) {
	mv, ok := m.movies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mv, nil
}

func (m *mockStore) SaveMovie(_ context.Context, movie *model.Movie) error {
	m.movies[movie.ID] = movie
	return nil
}

func (m *mockStore) DeleteAllMovies(_ context.Context) (int64, error) {
	n := int64(len(m.movies))
	m.movies = make(map[string]*model.Movie)
	return n, nil
}

func (m *mockStore) Ping(_ context.Context) error { return nil }
func (m *mockStore) Close() error                 { return nil }
