package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/movie-listings/internal/model"
)

// AiringRecordRepo stores TV airings in the tv_movies table.
type AiringRecordRepo struct {
	db *sql.DB
}

func NewAiringRecordRepo(db *sql.DB) *AiringRecordRepo {
	return &AiringRecordRepo{db: db}
}

// Insert writes one record in its own transaction and commits before
// returning.  On success r.ID holds the auto-generated id.
func (repo *AiringRecordRepo) Insert(ctx context.Context, r *model.AiringRecord) error {
	const q = `INSERT INTO tv_movies (title, release_year, genres, description, channel)
	           VALUES (?, ?, ?, ?, ?)`
	id, err := insertOne(ctx, repo.db, q, r.Title, nullableYear(r.ReleaseYear), r.Genres, r.Description, r.Channel)
	if err != nil {
		return errors.Wrap(err, "insert airing record")
	}
	r.ID = id
	return nil
}

// ListAll returns every airing record ordered by id.
func (repo *AiringRecordRepo) ListAll(ctx context.Context) ([]model.AiringRecord, error) {
	const q = `SELECT id, title, release_year, genres, description, channel
	           FROM tv_movies ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "query airing records")
	}
	defer rows.Close()

	var out []model.AiringRecord
	for rows.Next() {
		var (
			r    model.AiringRecord
			year sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Title, &year, &r.Genres, &r.Description, &r.Channel); err != nil {
			return nil, errors.Wrap(err, "scan airing record")
		}
		r.ReleaseYear = yearFromNull(year)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate airing records")
	}
	return out, nil
}
