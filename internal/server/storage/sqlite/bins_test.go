package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtools/valtools/internal/server/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetBin(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateBin(ctx)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr, "bin id must be a uuid")

	payload, err := s.GetBin(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, payload, "new bin starts empty")
}

func TestGetBinNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetBin(context.Background(), "no-such-bin")
	assert.ErrorIs(t, err, storage.ErrBinNotFound)
}

func TestReplaceBin(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateBin(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ReplaceBin(ctx, id, "token-1"))
	payload, err := s.GetBin(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "token-1", payload)

	// последняя запись побеждает
	require.NoError(t, s.ReplaceBin(ctx, id, "token-2"))
	payload, err = s.GetBin(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "token-2", payload)
}

func TestReplaceBinNotFound(t *testing.T) {
	s := newTestStorage(t)

	err := s.ReplaceBin(context.Background(), "no-such-bin", "payload")
	assert.ErrorIs(t, err, storage.ErrBinNotFound)
}

func TestBinsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first, err := s.CreateBin(ctx)
	require.NoError(t, err)
	second, err := s.CreateBin(ctx)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, s.ReplaceBin(ctx, first, "vault"))
	require.NoError(t, s.ReplaceBin(ctx, second, "guard"))

	payload, err := s.GetBin(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "vault", payload)

	payload, err = s.GetBin(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "guard", payload)
}
