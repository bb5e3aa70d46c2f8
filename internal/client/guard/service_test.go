package guard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtools/valtools/internal/client/api"
	"github.com/valtools/valtools/internal/models"
)

var testStaticKey = []byte("0123456789abcdef0123456789abcdef")

// binMock эмулирует удаленный bin в памяти
type binMock struct {
	mu      sync.Mutex
	payload string
}

func (b *binMock) client() *api.StoreClientMock {
	return &api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.payload == "" {
				return "", api.ErrBinNotFound
			}
			return b.payload, nil
		},
		ReplaceFunc: func(ctx context.Context, payload string) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.payload = payload
			return nil
		},
	}
}

func newTestService(t *testing.T, bin *binMock) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(bin.client(), testStaticKey, logger)
}

func adminSession(masterKey string) *models.Session {
	return &models.Session{Role: models.RoleAdmin, MasterKey: masterKey}
}

func TestSetupAdmin(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "guard-pass")
	require.NoError(t, err)
	require.NotEmpty(t, masterKey)
	assert.True(t, svc.Initialized())
	assert.True(t, svc.Synced())

	// повторная настройка запрещена
	_, err = svc.SetupAdmin(ctx, "other")
	assert.ErrorIs(t, err, models.ErrAlreadyInitialized)
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "guard-pass")
	require.NoError(t, err)

	// свежий сервис читает тот же bin
	fresh := newTestService(t, bin)

	got, err := fresh.AdminLogin(ctx, "guard-pass")
	require.NoError(t, err)
	assert.Equal(t, masterKey, got)

	_, err = fresh.AdminLogin(ctx, "wrong")
	assert.ErrorIs(t, err, models.ErrWrongPassword)
}

func TestAdminLoginBeforeSetup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &binMock{})

	_, err := svc.AdminLogin(ctx, "any")
	assert.ErrorIs(t, err, models.ErrNotInitialized)
}

func TestCreateVoucherPermissions(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &binMock{})

	for _, role := range []models.Role{models.RoleAnonymous, models.RoleGuest} {
		_, err := svc.CreateVoucher(ctx, &models.Session{Role: role}, 3)
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
	}
}

func TestCreateVoucherValidation(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)

	_, err = svc.CreateVoucher(ctx, adminSession(masterKey), 0)
	assert.Error(t, err)
	_, err = svc.CreateVoucher(ctx, adminSession(masterKey), -1)
	assert.Error(t, err)
}

func TestVoucherRedemption(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)

	voucher, err := svc.CreateVoucher(ctx, adminSession(masterKey), 1)
	require.NoError(t, err)
	require.NotEmpty(t, voucher.Code)
	assert.Equal(t, voucher.Code, strings.ToUpper(voucher.Code))
	assert.Equal(t, base.Add(24*time.Hour), voucher.Expiry)

	// погашение свежим сервисом: выпуск уже персистился
	guest := newTestService(t, bin)

	t.Run("valid within window", func(t *testing.T) {
		guest.now = func() time.Time { return base.Add(12 * time.Hour) }
		got, expiry, err := guest.GuestLogin(ctx, voucher.Code)
		require.NoError(t, err)
		assert.Equal(t, masterKey, got)
		assert.Equal(t, voucher.Expiry.Unix(), expiry.Unix())
	})

	t.Run("case insensitive with whitespace", func(t *testing.T) {
		guest.now = func() time.Time { return base.Add(12 * time.Hour) }
		got, _, err := guest.GuestLogin(ctx, "  "+strings.ToLower(voucher.Code)+" ")
		require.NoError(t, err)
		assert.Equal(t, masterKey, got)
	})

	t.Run("expired", func(t *testing.T) {
		guest.now = func() time.Time { return base.Add(48 * time.Hour) }
		_, _, err := guest.GuestLogin(ctx, voucher.Code)
		assert.ErrorIs(t, err, models.ErrVoucherInvalid)
	})

	t.Run("unknown code", func(t *testing.T) {
		guest.now = func() time.Time { return base.Add(time.Hour) }
		_, _, err := guest.GuestLogin(ctx, "NOSUCHCODE")
		assert.ErrorIs(t, err, models.ErrVoucherInvalid)
	})

	t.Run("redemption is read-only", func(t *testing.T) {
		guest.now = func() time.Time { return base.Add(time.Hour) }
		before := bin.payload
		_, _, err := guest.GuestLogin(ctx, voucher.Code)
		require.NoError(t, err)
		// код остается валидным и документ не перезаписан
		assert.Equal(t, before, bin.payload)
		_, _, err = guest.GuestLogin(ctx, voucher.Code)
		require.NoError(t, err)
	})
}

func TestAccountsRoundTrip(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)
	sess := adminSession(masterKey)

	require.NoError(t, svc.SaveAccount(ctx, sess, "main", "user@gmail.com", "secret1"))
	require.NoError(t, svc.SaveAccount(ctx, sess, "alt", "user@yahoo.com", "secret2"))

	// гость видит аккаунты через master key из voucher-а
	voucher, err := svc.CreateVoucher(ctx, sess, 7)
	require.NoError(t, err)

	guest := newTestService(t, bin)
	guestKey, _, err := guest.GuestLogin(ctx, voucher.Code)
	require.NoError(t, err)

	accounts, err := guest.Accounts(guestKey)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, models.GuardAccount{
		Email:    "user@gmail.com",
		Password: "secret1",
		Server:   "imap.gmail.com",
	}, accounts["main"])
	assert.Equal(t, "imap.mail.yahoo.com", accounts["alt"].Server)
}

func TestAccountsWrongKey(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)
	require.NoError(t, svc.SaveAccount(ctx, adminSession(masterKey), "main", "a@gmail.com", "pw"))

	// другой валидный ключ не проходит аутентификацию токена
	other := strings.Repeat("A", 43) + "="
	_, err = svc.Accounts(other)
	assert.Error(t, err)
}

func TestSaveAccountValidation(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)
	sess := adminSession(masterKey)

	assert.Error(t, svc.SaveAccount(ctx, sess, "", "a@b.com", "pw"))
	assert.Error(t, svc.SaveAccount(ctx, sess, "name", "", "pw"))
	assert.Error(t, svc.SaveAccount(ctx, sess, "name", "a@b.com", ""))

	guestSess := &models.Session{Role: models.RoleGuest, MasterKey: masterKey}
	assert.ErrorIs(t, svc.SaveAccount(ctx, guestSess, "name", "a@b.com", "pw"), models.ErrPermissionDenied)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{}
	svc := newTestService(t, bin)

	masterKey, err := svc.SetupAdmin(ctx, "pw")
	require.NoError(t, err)
	sess := adminSession(masterKey)

	require.NoError(t, svc.SaveAccount(ctx, sess, "main", "a@gmail.com", "pw"))
	require.NoError(t, svc.DeleteAccount(ctx, sess, "main"))

	accounts, err := svc.Accounts(masterKey)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	err = svc.DeleteAccount(ctx, sess, "main")
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestLoadCorruptDocument(t *testing.T) {
	ctx := context.Background()
	bin := &binMock{payload: "not-a-valid-token"}
	svc := newTestService(t, bin)

	err := svc.Load(ctx)
	require.Error(t, err)
	assert.False(t, svc.Synced())
}

func TestLoadFetchFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&api.StoreClientMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			return "", errors.New("network down")
		},
	}, testStaticKey, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := svc.Load(ctx)
	require.Error(t, err)
	assert.False(t, svc.Synced())
}
