package vault

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtools/valtools/internal/client/api"
	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/crypto"
	"github.com/valtools/valtools/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, crypto.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

// binMock — мок хранилища с одним payload в памяти
func binMock(initial string) *api.StoreClientMock {
	payload := initial
	return &api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			if payload == "" {
				return "", api.ErrBinNotFound
			}
			return payload, nil
		},
		ReplaceFunc: func(ctx context.Context, p string) error {
			payload = p
			return nil
		},
	}
}

func adminSession() *models.Session {
	return &models.Session{Role: models.RoleAdmin}
}

func TestLoadEmptyRemote(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Synced())
	assert.Empty(t, s.AdminHash())
	assert.Empty(t, s.Accounts())
}

func TestLoadFetchFailure(t *testing.T) {
	store := &api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			return "", fmt.Errorf("network is down")
		},
	}
	s := NewService(store, testKey(t), testLogger())

	err := s.Load(context.Background())
	require.Error(t, err)

	// Пустое хранилище и offline-индикатор, но не crash
	assert.False(t, s.Synced())
	assert.Empty(t, s.Accounts())
}

func TestLoadCorruptToken(t *testing.T) {
	s := NewService(binMock("not-a-valid-token"), testKey(t), testLogger())

	err := s.Load(context.Background())
	require.ErrorIs(t, err, crypto.ErrInvalidToken)
	assert.False(t, s.Synced())
}

func TestLoadExistingDocument(t *testing.T) {
	key := testKey(t)
	doc := models.VaultDocument{
		AdminHash: crypto.HashPassword("pw1"),
		Accounts: map[string]models.Account{
			"main": {Username: "user1", Password: "secret", Category: "Valorant"},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	token, err := crypto.Encrypt(raw, key)
	require.NoError(t, err)

	s := NewService(binMock(token), key, testLogger())
	require.NoError(t, s.Load(context.Background()))

	assert.True(t, s.Synced())
	assert.Equal(t, crypto.HashPassword("pw1"), s.AdminHash())

	acc, ok := s.Get("main")
	require.True(t, ok)
	assert.Equal(t, "user1", acc.Username)
}

func TestAddAccountDuplicateAlias(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())
	sess := adminSession()

	require.NoError(t, s.AddAccount(sess, "x", "first-user", "first-pw", "Valorant"))

	err := s.AddAccount(sess, "x", "second-user", "second-pw", "CS2")
	require.ErrorIs(t, err, models.ErrDuplicateAlias)

	// Сохранились данные первого вызова
	acc, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "first-user", acc.Username)
	assert.Equal(t, "first-pw", acc.Password)
	assert.Equal(t, "Valorant", acc.Category)
}

func TestAddAccountDefaultCategory(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())

	require.NoError(t, s.AddAccount(adminSession(), "x", "u", "p", ""))

	acc, _ := s.Get("x")
	assert.Equal(t, models.DefaultCategory, acc.Category)
}

func TestAddAccountPermissionDenied(t *testing.T) {
	store := binMock("")
	s := NewService(store, testKey(t), testLogger())

	for _, sess := range []*models.Session{
		models.NewSession(),
		{Role: models.RoleGuest},
	} {
		err := s.AddAccount(sess, "x", "u", "p", "")
		require.ErrorIs(t, err, models.ErrPermissionDenied)
	}

	// Запрос не должен был дойти до хранилища
	assert.Empty(t, store.ReplaceCalls())
}

func TestEditAccount(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())
	sess := adminSession()
	require.NoError(t, s.AddAccount(sess, "a", "user-a", "pw-a", "Valorant"))

	t.Run("not found", func(t *testing.T) {
		err := s.EditAccount(sess, "missing", EditOptions{})
		require.ErrorIs(t, err, models.ErrAccountNotFound)
	})

	t.Run("omitted fields keep prior values", func(t *testing.T) {
		newPw := "pw-a2"
		require.NoError(t, s.EditAccount(sess, "a", EditOptions{Password: &newPw}))

		acc, _ := s.Get("a")
		assert.Equal(t, "user-a", acc.Username)
		assert.Equal(t, "pw-a2", acc.Password)
		assert.Equal(t, "Valorant", acc.Category)
	})

	t.Run("rename moves entry", func(t *testing.T) {
		newAlias := "a2"
		require.NoError(t, s.EditAccount(sess, "a", EditOptions{Alias: &newAlias}))

		_, ok := s.Get("a")
		assert.False(t, ok)
		acc, ok := s.Get("a2")
		require.True(t, ok)
		assert.Equal(t, "user-a", acc.Username)
	})

	t.Run("permission denied", func(t *testing.T) {
		err := s.EditAccount(models.NewSession(), "a2", EditOptions{})
		require.ErrorIs(t, err, models.ErrPermissionDenied)
	})
}

func TestEditAccountRenameCollision(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())
	sess := adminSession()
	require.NoError(t, s.AddAccount(sess, "a", "user-a", "pw-a", ""))
	require.NoError(t, s.AddAccount(sess, "b", "user-b", "pw-b", ""))

	// Переименование в занятый alias молча перезаписывает его —
	// фиксируем текущее поведение, не «исправленное»
	newAlias := "b"
	require.NoError(t, s.EditAccount(sess, "a", EditOptions{Alias: &newAlias}))

	accounts := s.Accounts()
	require.Len(t, accounts, 1)
	acc, ok := accounts["b"]
	require.True(t, ok)
	assert.Equal(t, "user-a", acc.Username)
}

func TestDeleteAccount(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())
	sess := adminSession()
	require.NoError(t, s.AddAccount(sess, "x", "u", "p", ""))

	require.NoError(t, s.DeleteAccount(sess, "x"))
	require.ErrorIs(t, s.DeleteAccount(sess, "x"), models.ErrAccountNotFound)
	require.ErrorIs(t, s.DeleteAccount(models.NewSession(), "x"), models.ErrPermissionDenied)
}

func TestListByCategory(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())
	sess := adminSession()
	require.NoError(t, s.AddAccount(sess, "beta", "u", "p", "Valorant"))
	require.NoError(t, s.AddAccount(sess, "alpha", "u", "p", "Valorant"))
	require.NoError(t, s.AddAccount(sess, "solo", "u", "p", ""))

	grouped := s.ListByCategory()
	require.Len(t, grouped, 2)
	assert.Equal(t, []string{"alpha", "beta"}, grouped["Valorant"])
	assert.Equal(t, []string{"solo"}, grouped[models.DefaultCategory])
}

func TestPersistRoundTrip(t *testing.T) {
	key := testKey(t)
	store := binMock("")
	s := NewService(store, key, testLogger())
	sess := adminSession()

	require.NoError(t, s.BootstrapAdmin("pw1"))
	require.NoError(t, s.AddAccount(sess, "main", "user1", "secret", "Valorant"))
	assert.False(t, s.Synced())

	require.NoError(t, s.Persist(context.Background(), sess))
	assert.True(t, s.Synced())

	// Свежий клиент видит то же состояние
	fresh := NewService(store, key, testLogger())
	require.NoError(t, fresh.Load(context.Background()))
	assert.Equal(t, crypto.HashPassword("pw1"), fresh.AdminHash())

	acc, ok := fresh.Get("main")
	require.True(t, ok)
	assert.Equal(t, "user1", acc.Username)
	assert.Equal(t, "secret", acc.Password)
}

func TestPersistFailureMarksStale(t *testing.T) {
	store := binMock("")
	store.ReplaceFunc = func(ctx context.Context, p string) error {
		return &api.StatusError{StatusCode: 503, Message: "unavailable"}
	}
	s := NewService(store, testKey(t), testLogger())
	sess := adminSession()

	require.NoError(t, s.AddAccount(sess, "x", "u", "p", ""))

	err := s.Persist(context.Background(), sess)
	require.Error(t, err)

	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)

	// Память изменена, но удаленная копия устарела
	_, ok := s.Get("x")
	assert.True(t, ok)
	assert.False(t, s.Synced())
}

func TestPersistPermissionDenied(t *testing.T) {
	store := binMock("")
	s := NewService(store, testKey(t), testLogger())

	err := s.Persist(context.Background(), models.NewSession())
	require.ErrorIs(t, err, models.ErrPermissionDenied)
	assert.Empty(t, store.ReplaceCalls())
}

func TestBootstrapAdminIdempotence(t *testing.T) {
	s := NewService(binMock(""), testKey(t), testLogger())

	require.NoError(t, s.BootstrapAdmin("pw1"))
	first := s.AdminHash()

	err := s.BootstrapAdmin("pw2")
	require.ErrorIs(t, err, models.ErrAlreadyInitialized)

	// Хеш остался от первого вызова
	assert.Equal(t, first, s.AdminHash())
	assert.Equal(t, crypto.HashPassword("pw1"), s.AdminHash())
}

// memCache — in-memory PayloadCache
type memCache struct {
	payloads map[string]string
}

func newMemCache() *memCache {
	return &memCache{payloads: make(map[string]string)}
}

func (m *memCache) SavePayload(ctx context.Context, bin, payload string) error {
	m.payloads[bin] = payload
	return nil
}

func (m *memCache) GetPayload(ctx context.Context, bin string) (string, error) {
	payload, ok := m.payloads[bin]
	if !ok {
		return "", storage.ErrPayloadNotCached
	}
	return payload, nil
}

func TestLoadSavesOfflineCopy(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)
	cache := newMemCache()

	doc := models.VaultDocument{
		Accounts: map[string]models.Account{"main": {Username: "u", Password: "p"}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	token, err := crypto.Encrypt(raw, key)
	require.NoError(t, err)

	s := NewService(binMock(token), key, testLogger()).WithCache(cache, "vault")
	require.NoError(t, s.Load(ctx))

	assert.Equal(t, token, cache.payloads["vault"])
}

func TestLoadFallsBackToOfflineCopy(t *testing.T) {
	ctx := context.Background()
	key := testKey(t)
	cache := newMemCache()

	doc := models.VaultDocument{
		Accounts: map[string]models.Account{"main": {Username: "u", Password: "p"}},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	token, err := crypto.Encrypt(raw, key)
	require.NoError(t, err)
	require.NoError(t, cache.SavePayload(ctx, "vault", token))

	store := &api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			return "", fmt.Errorf("network is down")
		},
	}
	s := NewService(store, key, testLogger()).WithCache(cache, "vault")

	// offline-копия дает рабочий документ, но без флага синхронизации
	require.NoError(t, s.Load(ctx))
	assert.False(t, s.Synced())

	acc, ok := s.Get("main")
	require.True(t, ok)
	assert.Equal(t, "u", acc.Username)
}

func TestLoadFetchFailureEmptyCache(t *testing.T) {
	store := &api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			return "", fmt.Errorf("network is down")
		},
	}
	s := NewService(store, testKey(t), testLogger()).WithCache(newMemCache(), "vault")

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, s.Synced())
}
