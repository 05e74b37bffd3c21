package postgres

import (
	"database/sql"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanMovie scans a single row into a model.Movie.
// The row must contain columns in the order defined by movieColumns.
func scanMovie(row scannable) (*model.Movie, error) {
	var m model.Movie
	if err := row.Scan(&m.ID, &m.Title); err != nil {
		return nil, err
	}
	return &m, nil
}

// scanMovies collects every row of a movies query.
func scanMovies(rows *sql.Rows) ([]*model.Movie, error) {
	movies := make([]*model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
