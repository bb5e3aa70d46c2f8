package guard

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valtools/valtools/internal/client/api"
	"github.com/valtools/valtools/internal/crypto"
	"github.com/valtools/valtools/internal/models"
)

const (
	// voucherEntropy - количество случайных байт в коде voucher-а
	voucherEntropy = 16
	// secondsPerDay для вычисления expiry
	secondsPerDay = 86400
)

// voucherEncoding - URL-safe алфавит без регистровых коллизий;
// погашение сравнивает коды без учета регистра, поэтому вход
// нормализуется в верхний регистр
var voucherEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Service владеет гостевым sub-vault: Steam Guard аккаунты, ключ
// master key и voucher-ы. Внешний документ шифруется встроенным
// статическим ключом, аккаунты внутри него — дополнительно master key.
type Service struct {
	store     api.StoreClient
	logger    *slog.Logger
	now       func() time.Time
	doc       *models.GuardDocument
	staticKey []byte
	synced    bool
	mu        sync.Mutex
}

// NewService создает guard-сервис.
// staticKey - 32-байтовый встроенный ключ кодека.
func NewService(store api.StoreClient, staticKey []byte, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		staticKey: staticKey,
		logger:    logger,
		now:       time.Now,
		doc:       models.NewGuardDocument(),
	}
}

// Load читает и расшифровывает внешний гостевой документ.
// Пустое удаленное хранилище — валидное состояние до первой настройки.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	s.doc = models.NewGuardDocument()
	s.synced = false

	token, err := s.store.Fetch(ctx)
	if errors.Is(err, api.ErrBinNotFound) {
		s.synced = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch guard document: %w", err)
	}

	raw, err := crypto.Decrypt(token, s.staticKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt guard document: %w", err)
	}

	doc, err := models.ParseGuardDocument(raw)
	if err != nil {
		return fmt.Errorf("failed to parse guard document: %w", err)
	}

	s.doc = doc
	s.synced = true
	return nil
}

// Synced сообщает, совпадает ли память с удаленной копией
func (s *Service) Synced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced
}

// Initialized сообщает, настроен ли админ sub-vault
func (s *Service) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.AdminHash != ""
}

// SetupAdmin выполняет одноразовую настройку sub-vault: сохраняет хеш
// пароля, генерирует master key и сразу персистит документ.
// Возвращает master key для новой админской сессии.
func (s *Service) SetupAdmin(ctx context.Context, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return "", err
	}
	if s.doc.AdminHash != "" {
		return "", models.ErrAlreadyInitialized
	}

	masterKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}

	s.doc.AdminHash = crypto.HashPassword(password)
	s.doc.MasterKey = masterKey

	if err := s.persistLocked(ctx); err != nil {
		return "", err
	}

	s.logger.Info("guard sub-vault initialized")
	return masterKey, nil
}

// AdminLogin аутентифицирует админа sub-vault по паролю.
// Возвращает master key при совпадении хеша.
func (s *Service) AdminLogin(ctx context.Context, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return "", err
	}
	if s.doc.AdminHash == "" {
		return "", models.ErrNotInitialized
	}
	if crypto.HashPassword(password) != s.doc.AdminHash {
		return "", models.ErrWrongPassword
	}
	return s.doc.MasterKey, nil
}

// GuestLogin погашает voucher: возвращает master key и срок действия
// кода. Код сравнивается без учета регистра; voucher остается в
// документе — погашение read-only и не одноразовое.
func (s *Service) GuestLogin(ctx context.Context, code string) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return "", time.Time{}, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	unixExpiry, ok := s.doc.Vouchers[normalized]
	if !ok {
		return "", time.Time{}, models.ErrVoucherInvalid
	}

	expiry := time.Unix(unixExpiry, 0)
	if !s.now().Before(expiry) {
		return "", time.Time{}, models.ErrVoucherInvalid
	}

	return s.doc.MasterKey, expiry, nil
}

// CreateVoucher выпускает новый гостевой код со сроком действия в днях.
// Только для админа; документ персистится сразу после выпуска.
func (s *Service) CreateVoucher(ctx context.Context, sess *models.Session, validDays int) (*models.Voucher, error) {
	if !sess.IsAdmin() {
		return nil, models.ErrPermissionDenied
	}
	if validDays <= 0 {
		return nil, fmt.Errorf("validDays must be positive, got %d", validDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}

	code, err := generateVoucherCode()
	if err != nil {
		return nil, err
	}

	expiry := s.now().Add(time.Duration(validDays) * secondsPerDay * time.Second)
	s.doc.Vouchers[code] = expiry.Unix()

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("voucher created", "valid_days", validDays)
	return &models.Voucher{Code: code, Expiry: expiry}, nil
}

// Accounts расшифровывает и возвращает Steam Guard аккаунты.
// masterKey получен через AdminLogin, SetupAdmin или GuestLogin.
func (s *Service) Accounts(masterKey string) (map[string]models.GuardAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountsLocked(masterKey)
}

func (s *Service) accountsLocked(masterKey string) (map[string]models.GuardAccount, error) {
	if s.doc.Payload == "" {
		return make(map[string]models.GuardAccount), nil
	}

	key, err := crypto.DecodeKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("invalid master key: %w", err)
	}

	raw, err := crypto.Decrypt(s.doc.Payload, key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt guard accounts: %w", err)
	}

	accounts := make(map[string]models.GuardAccount)
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse guard accounts: %w", err)
	}
	return accounts, nil
}

// SaveAccount добавляет или заменяет Steam Guard аккаунт.
// IMAP сервер выводится из домена почты, как в исходной системе.
func (s *Service) SaveAccount(ctx context.Context, sess *models.Session, name, email, password string) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}
	if name == "" || email == "" || password == "" {
		return fmt.Errorf("name, email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Свежая копия документа перед мутацией: last write wins
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	accounts, err := s.accountsLocked(sess.MasterKey)
	if err != nil {
		return err
	}

	accounts[name] = models.GuardAccount{
		Email:    email,
		Password: password,
		Server:   mailServerFor(email),
	}

	if err := s.sealAccountsLocked(sess.MasterKey, accounts); err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

// DeleteAccount удаляет Steam Guard аккаунт по имени
func (s *Service) DeleteAccount(ctx context.Context, sess *models.Session, name string) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	accounts, err := s.accountsLocked(sess.MasterKey)
	if err != nil {
		return err
	}

	if _, exists := accounts[name]; !exists {
		return fmt.Errorf("%w: %q", models.ErrAccountNotFound, name)
	}
	delete(accounts, name)

	if err := s.sealAccountsLocked(sess.MasterKey, accounts); err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

// sealAccountsLocked шифрует аккаунты master key-ом и кладет токен в документ
func (s *Service) sealAccountsLocked(masterKey string, accounts map[string]models.GuardAccount) error {
	key, err := crypto.DecodeKey(masterKey)
	if err != nil {
		return fmt.Errorf("invalid master key: %w", err)
	}

	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal guard accounts: %w", err)
	}

	token, err := crypto.Encrypt(raw, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt guard accounts: %w", err)
	}

	s.doc.Payload = token
	return nil
}

// persistLocked шифрует внешний документ статическим ключом и
// перезаписывает удаленный bin
func (s *Service) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal guard document: %w", err)
	}

	token, err := crypto.Encrypt(raw, s.staticKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt guard document: %w", err)
	}

	if err := s.store.Replace(ctx, token); err != nil {
		s.synced = false
		return fmt.Errorf("failed to replace guard document: %w", err)
	}

	s.synced = true
	return nil
}

// generateVoucherCode генерирует криптографически стойкий код в
// верхнем регистре
func generateVoucherCode() (string, error) {
	buf := make([]byte, voucherEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate voucher code: %w", err)
	}
	return voucherEncoding.EncodeToString(buf), nil
}

// mailServerFor выводит IMAP сервер из адреса почты
func mailServerFor(email string) string {
	if strings.Contains(strings.ToLower(email), "yahoo") {
		return "imap.mail.yahoo.com"
	}
	return "imap.gmail.com"
}
