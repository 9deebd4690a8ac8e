// Package repository contains data access logic for the persisted listing
// records.  Each record kind lives in its own table and has its own repo;
// there is no shared supertype and no update or delete path.
package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/movie-listings/internal/model"
)

// TheatreRecordRepo stores theatre showings in the theatre_movies table.
type TheatreRecordRepo struct {
	db *sql.DB
}

// NewTheatreRecordRepo constructs a TheatreRecordRepo with the provided DB
// handle.  The handle is owned by the caller.
func NewTheatreRecordRepo(db *sql.DB) *TheatreRecordRepo {
	return &TheatreRecordRepo{db: db}
}

// Insert writes one record in its own transaction and commits before
// returning.  On success r.ID holds the auto-generated id.
func (repo *TheatreRecordRepo) Insert(ctx context.Context, r *model.TheatreRecord) error {
	const q = `INSERT INTO theatre_movies (title, release_year, genres, description, theatre)
	           VALUES (?, ?, ?, ?, ?)`
	id, err := insertOne(ctx, repo.db, q, r.Title, nullableYear(r.ReleaseYear), r.Genres, r.Description, r.Theatre)
	if err != nil {
		return errors.Wrap(err, "insert theatre record")
	}
	r.ID = id
	return nil
}

// ListAll returns every theatre record ordered by id.
func (repo *TheatreRecordRepo) ListAll(ctx context.Context) ([]model.TheatreRecord, error) {
	const q = `SELECT id, title, release_year, genres, description, theatre
	           FROM theatre_movies ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "query theatre records")
	}
	defer rows.Close()

	var out []model.TheatreRecord
	for rows.Next() {
		var (
			r    model.TheatreRecord
			year sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Title, &year, &r.Genres, &r.Description, &r.Theatre); err != nil {
			return nil, errors.Wrap(err, "scan theatre record")
		}
		r.ReleaseYear = yearFromNull(year)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate theatre records")
	}
	return out, nil
}
