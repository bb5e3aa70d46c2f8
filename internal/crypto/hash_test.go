package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	// Известный вектор: sha256("password") в hex
	assert.Equal(t,
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		HashPassword("password"))

	// Детерминированность
	assert.Equal(t, HashPassword("pw1"), HashPassword("pw1"))
	assert.NotEqual(t, HashPassword("pw1"), HashPassword("pw2"))

	// Всегда 64 hex символа
	assert.Len(t, HashPassword(""), 64)
}

func TestVerifyPassword(t *testing.T) {
	stored := HashPassword("correct horse")

	require.NoError(t, VerifyPassword("correct horse", stored))
	require.Error(t, VerifyPassword("wrong", stored))
	require.Error(t, VerifyPassword("correct horse", ""))
}
