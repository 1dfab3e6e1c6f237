package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: "23505"}), ErrDuplicate)

	assert.ErrorIs(t, mapWriteError(&pgconn.PgError{Code: "23503"}), ErrReferenced)

	other := &pgconn.PgError{Code: "23514"}
	assert.Equal(t, error(other), mapWriteError(other))
	assert.NoError(t, mapWriteError(nil))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("8f14e45f-ceea-467f-a0e6-0b9a1c2d3e4f"))
	assert.False(t, isUUID("missing"))
	assert.False(t, isUUID(""))
}
