package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/valtools/valtools/internal/client/api"
	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/crypto"
	"github.com/valtools/valtools/internal/models"
)

// Service владеет расшифрованным документом хранилища аккаунтов.
// Все мутации выполняются в памяти; запись в удаленное хранилище
// происходит только по явному вызову Persist. Mutex сериализует
// последовательности mutate+persist внутри процесса; межпроцессной
// координации нет — последняя запись побеждает.
type Service struct {
	store    api.StoreClient
	cache    storage.PayloadCache
	logger   *slog.Logger
	doc      *models.VaultDocument
	key      []byte
	cacheBin string
	synced   bool
	mu       sync.Mutex
}

// NewService создает vault-сервис.
// key - 32-байтовый ключ кодека, общий для всех установок.
func NewService(store api.StoreClient, key []byte, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		key:    key,
		logger: logger,
		doc:    models.NewVaultDocument(),
	}
}

// WithCache включает offline-копию документа: после успешного Load
// зашифрованный payload сохраняется локально, а при недоступном
// хранилище документ читается из копии. Synced остается false в
// offline-режиме, так что индикация «не синхронизировано» сохраняется.
func (s *Service) WithCache(cache storage.PayloadCache, bin string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = cache
	s.cacheBin = bin
	return s
}

// Load читает, расшифровывает и разбирает удаленный документ.
// Любой сбой (сеть, расшифровка, разбор) оставляет пустой документ и
// снимает флаг синхронизации: UI получает offline-индикатор, но не падает.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = models.NewVaultDocument()
	s.synced = false

	token, err := s.store.Fetch(ctx)
	if errors.Is(err, api.ErrBinNotFound) {
		// Пустое удаленное хранилище — валидное состояние первого запуска
		s.synced = true
		s.logger.Info("remote vault is empty")
		return nil
	}
	if err != nil {
		if doc, cacheErr := s.loadCachedLocked(ctx); cacheErr == nil {
			s.doc = doc
			s.logger.Warn("storage unreachable, using offline copy", "error", err)
			return nil
		}
		s.logger.Warn("failed to fetch vault document", "error", err)
		return fmt.Errorf("failed to fetch vault document: %w", err)
	}

	raw, err := crypto.Decrypt(token, s.key)
	if err != nil {
		s.logger.Warn("failed to decrypt vault document", "error", err)
		return fmt.Errorf("failed to decrypt vault document: %w", err)
	}

	doc, err := models.ParseVaultDocument(raw)
	if err != nil {
		s.logger.Warn("failed to parse vault document", "error", err)
		return fmt.Errorf("failed to parse vault document: %w", err)
	}

	s.doc = doc
	s.synced = true
	s.logger.Info("vault document loaded", "accounts", len(doc.Accounts))

	if s.cache != nil {
		if err := s.cache.SavePayload(ctx, s.cacheBin, token); err != nil {
			s.logger.Warn("failed to save offline copy", "error", err)
		}
	}
	return nil
}

// loadCachedLocked разбирает последнюю offline-копию документа
func (s *Service) loadCachedLocked(ctx context.Context) (*models.VaultDocument, error) {
	if s.cache == nil {
		return nil, storage.ErrPayloadNotCached
	}

	token, err := s.cache.GetPayload(ctx, s.cacheBin)
	if err != nil {
		return nil, err
	}
	raw, err := crypto.Decrypt(token, s.key)
	if err != nil {
		return nil, err
	}
	return models.ParseVaultDocument(raw)
}

// Synced сообщает, совпадает ли память с удаленной копией.
// false после неудачного Load или после мутации, которую не удалось
// записать (удаленная копия устарела).
func (s *Service) Synced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced
}

// AdminHash возвращает сохраненный хеш пароля админа ("" = не настроен)
func (s *Service) AdminHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.AdminHash
}

// BootstrapAdmin устанавливает хеш пароля админа при первом запуске.
// Отказывает с ErrAlreadyInitialized, если админ уже настроен:
// bootstrap выполняется ровно один раз.
func (s *Service) BootstrapAdmin(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.AdminHash != "" {
		return models.ErrAlreadyInitialized
	}
	s.doc.AdminHash = crypto.HashPassword(password)
	s.synced = false
	return nil
}

// AddAccount добавляет новый аккаунт.
// Alias сравнивается точно (case-sensitive); пустая категория
// заменяется на DefaultCategory.
func (s *Service) AddAccount(sess *models.Session, alias, username, password, category string) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Accounts[alias]; exists {
		return fmt.Errorf("%w: %q", models.ErrDuplicateAlias, alias)
	}
	if category == "" {
		category = models.DefaultCategory
	}

	s.doc.Accounts[alias] = models.Account{
		Username: username,
		Password: password,
		Category: category,
	}
	s.synced = false
	return nil
}

// EditOptions — опциональные новые значения полей аккаунта.
// nil-поле означает «оставить прежнее значение».
type EditOptions struct {
	Alias    *string
	Username *string
	Password *string
	Category *string
}

// EditAccount изменяет существующий аккаунт.
// Переименование реализовано как удаление старого ключа и вставка под
// новым: совпадение нового alias с третьей существующей записью молча
// перезаписывает ее. Это поведение исходной системы, оно сохранено
// намеренно и описано в DESIGN.md.
func (s *Service) EditAccount(sess *models.Session, oldAlias string, opts EditOptions) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, exists := s.doc.Accounts[oldAlias]
	if !exists {
		return fmt.Errorf("%w: %q", models.ErrAccountNotFound, oldAlias)
	}

	if opts.Username != nil {
		acc.Username = *opts.Username
	}
	if opts.Password != nil {
		acc.Password = *opts.Password
	}
	if opts.Category != nil {
		acc.Category = *opts.Category
	}
	if acc.Category == "" {
		acc.Category = models.DefaultCategory
	}

	newAlias := oldAlias
	if opts.Alias != nil && *opts.Alias != "" {
		newAlias = *opts.Alias
	}

	if newAlias != oldAlias {
		delete(s.doc.Accounts, oldAlias)
	}
	s.doc.Accounts[newAlias] = acc
	s.synced = false
	return nil
}

// DeleteAccount удаляет аккаунт по alias
func (s *Service) DeleteAccount(sess *models.Session, alias string) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.doc.Accounts[alias]; !exists {
		return fmt.Errorf("%w: %q", models.ErrAccountNotFound, alias)
	}
	delete(s.doc.Accounts, alias)
	s.synced = false
	return nil
}

// Get возвращает аккаунт по alias
func (s *Service) Get(alias string) (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.doc.Accounts[alias]
	return acc, ok
}

// Accounts возвращает копию всех аккаунтов
func (s *Service) Accounts() map[string]models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.Account, len(s.doc.Accounts))
	for alias, acc := range s.doc.Accounts {
		out[alias] = acc
	}
	return out
}

// ListByCategory группирует alias-ы по категориям для отображения.
// Alias-ы внутри категории отсортированы.
func (s *Service) ListByCategory() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]string)
	for alias, acc := range s.doc.Accounts {
		category := acc.Category
		if category == "" {
			category = models.DefaultCategory
		}
		grouped[category] = append(grouped[category], alias)
	}

	for _, aliases := range grouped {
		sort.Strings(aliases)
	}
	return grouped
}

// Persist сериализует документ, шифрует его и целиком перезаписывает
// удаленный bin. Vault не делает auto-flush: каждый мутирующий вызов
// должен сопровождаться явным Persist вызывающей стороной. При ошибке
// память остается измененной, а удаленная копия считается устаревшей —
// вызывающий код обязан предупредить пользователя и предложить повтор.
func (s *Service) Persist(ctx context.Context, sess *models.Session) error {
	if !sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal vault document: %w", err)
	}

	token, err := crypto.Encrypt(raw, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt vault document: %w", err)
	}

	if err := s.store.Replace(ctx, token); err != nil {
		s.synced = false
		return fmt.Errorf("failed to replace vault document: %w", err)
	}

	s.synced = true
	s.logger.Info("vault document persisted", "accounts", len(s.doc.Accounts))
	return nil
}
