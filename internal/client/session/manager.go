package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/valtools/valtools/internal/client/guard"
	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/client/vault"
	"github.com/valtools/valtools/internal/crypto"
	"github.com/valtools/valtools/internal/models"
)

// adminSessionTTL - срок действия сохраненной админской сессии.
// Гостевая сессия живет до истечения voucher-а.
const adminSessionTTL = 12 * time.Hour

const tokenIssuer = "valtools"

// Claims представляет JWT claims сохраненной сессии
type Claims struct {
	Role      string `json:"role"`
	MasterKey string `json:"master_key,omitempty"`
	jwt.RegisteredClaims
}

// Manager управляет жизненным циклом сессии: login, logout и
// восстановление между запусками CLI. Токен сессии подписывается
// встроенным статическим ключом и хранится в локальном bolt-файле.
type Manager struct {
	vault  *vault.Service
	guard  *guard.Service
	tokens storage.SessionStorage
	secret []byte
	logger *slog.Logger
	now    func() time.Time
}

// NewManager создает менеджер сессий.
// secret используется для подписи HS256 токенов.
func NewManager(
	vaultSvc *vault.Service,
	guardSvc *guard.Service,
	tokens storage.SessionStorage,
	secret []byte,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		vault:  vaultSvc,
		guard:  guardSvc,
		tokens: tokens,
		secret: secret,
		logger: logger,
		now:    time.Now,
	}
}

// SetupAdmin выполняет первичную настройку хранилища: устанавливает
// хеш админского пароля и сразу персистит документ.
// Возвращает залогиненную админскую сессию.
func (m *Manager) SetupAdmin(ctx context.Context, password string) (*models.Session, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	if err := m.vault.Load(ctx); err != nil {
		return nil, err
	}
	if err := m.vault.BootstrapAdmin(password); err != nil {
		return nil, err
	}

	sess := &models.Session{Role: models.RoleAdmin}
	if err := m.vault.Persist(ctx, sess); err != nil {
		return nil, err
	}

	if err := m.saveToken(ctx, sess, m.now().Add(adminSessionTTL)); err != nil {
		m.logger.Warn("failed to persist session token", "error", err)
	}

	m.logger.Info("admin account initialized")
	return sess, nil
}

// AdminLogin аутентифицирует админа по паролю основного хранилища
func (m *Manager) AdminLogin(ctx context.Context, password string) (*models.Session, error) {
	if err := m.vault.Load(ctx); err != nil {
		return nil, err
	}

	storedHash := m.vault.AdminHash()
	if storedHash == "" {
		return nil, models.ErrNotInitialized
	}
	if err := crypto.VerifyPassword(password, storedHash); err != nil {
		return nil, models.ErrWrongPassword
	}

	sess := &models.Session{Role: models.RoleAdmin}
	if err := m.saveToken(ctx, sess, m.now().Add(adminSessionTTL)); err != nil {
		m.logger.Warn("failed to persist session token", "error", err)
	}

	m.logger.Info("admin logged in")
	return sess, nil
}

// GuardAdminLogin аутентифицирует админа гостевого sub-vault.
// Успех дает админскую сессию с master key для guard-операций.
func (m *Manager) GuardAdminLogin(ctx context.Context, password string) (*models.Session, error) {
	masterKey, err := m.guard.AdminLogin(ctx, password)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Role: models.RoleAdmin, MasterKey: masterKey}
	if err := m.saveToken(ctx, sess, m.now().Add(adminSessionTTL)); err != nil {
		m.logger.Warn("failed to persist session token", "error", err)
	}

	m.logger.Info("guard admin logged in")
	return sess, nil
}

// GuestLogin погашает voucher и открывает гостевую сессию с master key.
// Сессия истекает вместе с voucher-ом.
func (m *Manager) GuestLogin(ctx context.Context, code string) (*models.Session, error) {
	masterKey, expiry, err := m.guard.GuestLogin(ctx, code)
	if err != nil {
		return nil, err
	}

	sess := &models.Session{Role: models.RoleGuest, MasterKey: masterKey}
	if err := m.saveToken(ctx, sess, expiry); err != nil {
		m.logger.Warn("failed to persist session token", "error", err)
	}

	m.logger.Info("guest logged in", "voucher_expiry", expiry)
	return sess, nil
}

// Logout сбрасывает сессию и удаляет сохраненный токен
func (m *Manager) Logout(ctx context.Context, sess *models.Session) error {
	sess.Logout()
	if err := m.tokens.DeleteSessionToken(ctx); err != nil &&
		!errors.Is(err, storage.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	m.logger.Info("logged out")
	return nil
}

// Restore восстанавливает сессию из сохраненного токена.
// Отсутствующий, просроченный или невалидный токен дает анонимную
// сессию; протухший токен при этом удаляется.
func (m *Manager) Restore(ctx context.Context) *models.Session {
	tokenString, err := m.tokens.GetSessionToken(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			m.logger.Warn("failed to read session token", "error", err)
		}
		return models.NewSession()
	}

	claims, err := m.parseToken(tokenString)
	if err != nil {
		m.logger.Debug("stored session token rejected", "error", err)
		if delErr := m.tokens.DeleteSessionToken(ctx); delErr != nil {
			m.logger.Warn("failed to delete stale session token", "error", delErr)
		}
		return models.NewSession()
	}

	role := models.Role(claims.Role)
	if role != models.RoleAdmin && role != models.RoleGuest {
		return models.NewSession()
	}

	return &models.Session{
		Role:      role,
		MasterKey: claims.MasterKey,
	}
}

// saveToken подписывает и сохраняет токен сессии
func (m *Manager) saveToken(ctx context.Context, sess *models.Session, expiry time.Time) error {
	now := m.now()
	claims := Claims{
		Role:      string(sess.Role),
		MasterKey: sess.MasterKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	return m.tokens.SaveSessionToken(ctx, tokenString)
}

// parseToken валидирует подпись и срок действия токена
func (m *Manager) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
