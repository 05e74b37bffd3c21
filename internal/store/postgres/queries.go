package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alfredjeanlab/ffs/internal/model"
)

// movieColumns is the column list used for SELECT statements on the movies table.
const movieColumns = `id, title`

// executor is the subset of *sql.DB used by the query functions.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryListMovies(ctx context.Context, db executor) ([]*model.Movie, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovies(rows)
}

func queryGetMovie(ctx context.Context, db executor, id string) (*model.Movie, error) {
	row := db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	return scanMovie(row)
}

func querySaveMovie(ctx context.Context, db executor, m *model.Movie) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO movies (id, title) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title`,
		m.ID,
		m.Title,
	)
	return err
}

func queryDeleteAllMovies(ctx context.Context, db executor) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
