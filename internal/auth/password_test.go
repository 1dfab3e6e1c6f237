package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hashed, err := HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.NoError(t, ComparePassword(hashed, "secret1"))
	assert.ErrorIs(t, ComparePassword(hashed, "secret2"), bcrypt.ErrMismatchedHashAndPassword)
}
