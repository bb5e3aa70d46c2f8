package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valtools/valtools/internal/client/storage"
)

// ErrSteamNotFound indicates no Steam installation could be located
var ErrSteamNotFound = errors.New("steam installation not found")

// defaultCandidates - типовые каталоги установки Steam, проверяются
// после настроек и реестра
var defaultCandidates = []string{
	`C:\Program Files (x86)\Steam`,
	`C:\Program Files\Steam`,
	`D:\Steam`,
	`D:\Program Files (x86)\Steam`,
	`E:\Steam`,
}

// Resolver находит каталог установки Steam.
// Порядок: ручное переопределение из настроек, реестр Windows,
// типовые каталоги.
type Resolver struct {
	settings   storage.SettingsStorage
	logger     *slog.Logger
	candidates []string
	dirExists  func(path string) bool
}

// NewResolver создает резолвер пути к Steam
func NewResolver(settings storage.SettingsStorage, logger *slog.Logger) *Resolver {
	return &Resolver{
		settings:   settings,
		logger:     logger,
		candidates: defaultCandidates,
		dirExists:  dirExists,
	}
}

// Resolve возвращает каталог установки Steam
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	settings, err := r.settings.GetSettings(ctx)
	if err != nil && !errors.Is(err, storage.ErrSettingsNotFound) {
		return "", fmt.Errorf("failed to read settings: %w", err)
	}
	if settings != nil && settings.SteamPath != "" {
		if r.dirExists(settings.SteamPath) {
			return settings.SteamPath, nil
		}
		r.logger.Warn("configured steam path does not exist, falling back to probe",
			"path", settings.SteamPath)
	}

	if path := registryPath(); path != "" && r.dirExists(path) {
		return path, nil
	}

	for _, candidate := range r.candidates {
		if r.dirExists(candidate) {
			return candidate, nil
		}
	}

	return "", ErrSteamNotFound
}

// PluginDir возвращает каталог lua-скриптов внутри установки Steam,
// создавая его при необходимости
func PluginDir(steamPath string) (string, error) {
	dir := filepath.Join(steamPath, "config", "stplug-in")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plugin dir: %w", err)
	}
	return dir, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
