package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches. It aliases pgx.ErrNoRows so callers
	// can check either.
	ErrNotFound = pgx.ErrNoRows
	// ErrDuplicate is returned when a uniqueness constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStatusConflict is returned by conditional updates when the stored status no
	// longer matches the expected pre-state.
	ErrStatusConflict = errors.New("status changed concurrently")
	// ErrReferenced is returned when a delete would orphan rows that point at the record.
	ErrReferenced = errors.New("record still referenced")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrDuplicate
		case foreignKeyViolation:
			return ErrReferenced
		}
	}
	return err
}

// isUUID reports whether id can match a uuid primary key. Lookups by malformed ids
// report ErrNotFound instead of a Postgres cast error.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
