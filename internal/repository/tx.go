package repository

import (
	"context"
	"database/sql"
)

// insertOne runs a single INSERT inside its own transaction and returns the
// generated id.  The transaction is rolled back on any failure.
func insertOne(ctx context.Context, db *sql.DB, query string, args ...any) (id uint64, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(lastID), nil
}

func nullableYear(y *int) any {
	if y == nil {
		return nil
	}
	return int64(*y)
}

func yearFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	y := int(n.Int64)
	return &y
}
