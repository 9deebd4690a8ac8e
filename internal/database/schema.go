package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// schema creates the two record tables.  Column sizes follow the listing
// data: titles fit in 255 characters, genres and descriptions are free text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS theatre_movies (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255) NOT NULL,
		release_year INT NULL,
		genres       TEXT NOT NULL,
		description  TEXT NOT NULL,
		theatre      VARCHAR(1024) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tv_movies (
		id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255) NOT NULL,
		release_year INT NULL,
		genres       TEXT NOT NULL,
		description  TEXT NOT NULL,
		channel      VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the record tables when they do not exist yet.  It
// never alters existing tables.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "create record tables")
		}
	}
	return nil
}
