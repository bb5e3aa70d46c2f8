package inject

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/models"
	"github.com/valtools/valtools/internal/steam"
)

// ErrNoDepotKeys indicates neither a published lua script nor any
// depot keys exist for the game
var ErrNoDepotKeys = errors.New("no depot keys found for game")

// Injector регистрирует игры в плагине Steam: кладет lua-скрипт в
// каталог плагина и ведет локальный список зарегистрированных игр.
type Injector struct {
	hub      *HubClient
	resolver *steam.Resolver
	games    storage.GamesStorage
	logger   *slog.Logger
	now      func() time.Time
}

// NewInjector создает injector
func NewInjector(hub *HubClient, resolver *steam.Resolver, games storage.GamesStorage, logger *slog.Logger) *Injector {
	return &Injector{
		hub:      hub,
		resolver: resolver,
		games:    games,
		logger:   logger,
		now:      time.Now,
	}
}

// Inject записывает lua-скрипт игры в каталог плагина и добавляет
// запись в локальный список. Повторная регистрация заменяет скрипт
// и запись.
func (i *Injector) Inject(ctx context.Context, info *models.GameInfo) error {
	steamPath, err := i.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	pluginDir, err := steam.PluginDir(steamPath)
	if err != nil {
		return err
	}

	script, err := i.buildScript(ctx, info)
	if err != nil {
		return err
	}

	luaPath := filepath.Join(pluginDir, strconv.Itoa(info.AppID)+".lua")
	if err := os.WriteFile(luaPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write lua script: %w", err)
	}

	game := &models.InjectedGame{
		AppID:     info.AppID,
		Name:      info.Name,
		DLCCount:  len(info.DLC),
		Timestamp: i.now().UnixMilli(),
	}
	if err := i.games.SaveGame(ctx, game); err != nil {
		return fmt.Errorf("failed to record injected game: %w", err)
	}

	i.logger.Info("game injected", "app_id", info.AppID, "name", info.Name)
	return nil
}

// Remove удаляет lua-скрипт игры и запись из локального списка.
// Отсутствие скрипта или записи не считается ошибкой.
func (i *Injector) Remove(ctx context.Context, appID int) error {
	steamPath, err := i.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	pluginDir, err := steam.PluginDir(steamPath)
	if err != nil {
		return err
	}

	luaPath := filepath.Join(pluginDir, strconv.Itoa(appID)+".lua")
	if err := os.Remove(luaPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lua script: %w", err)
	}

	if err := i.games.DeleteGame(ctx, appID); err != nil &&
		!errors.Is(err, storage.ErrGameNotFound) {
		return fmt.Errorf("failed to remove injected game record: %w", err)
	}

	i.logger.Info("game removed", "app_id", appID)
	return nil
}

// List возвращает зарегистрированные игры, новые первыми
func (i *Injector) List(ctx context.Context) ([]*models.InjectedGame, error) {
	return i.games.ListGames(ctx)
}

// buildScript выбирает готовый скрипт из ветки ManifestHub, иначе
// генерирует его из базы depot-ключей
func (i *Injector) buildScript(ctx context.Context, info *models.GameInfo) (string, error) {
	script, err := i.hub.AppLua(ctx, info.AppID)
	if err == nil {
		return script, nil
	}
	if !errors.Is(err, ErrLuaNotPublished) {
		return "", err
	}

	i.logger.Debug("no published lua, generating from depot keys", "app_id", info.AppID)

	keys, err := i.hub.DepotKeys(ctx)
	if err != nil {
		return "", err
	}

	mainDepots := DepotsForApp(info.AppID, keys)

	var dlcDepots []DLCDepots
	total := len(mainDepots)
	for _, dlc := range info.DLC {
		depots := DepotsForApp(dlc.AppID, keys)
		if len(depots) == 0 {
			continue
		}
		total += len(depots)
		dlcDepots = append(dlcDepots, DLCDepots{
			AppID:  dlc.AppID,
			Name:   dlc.Name,
			Depots: depots,
		})
	}

	if total == 0 {
		return "", fmt.Errorf("%w: app %d", ErrNoDepotKeys, info.AppID)
	}

	return GenerateLua(info.AppID, info.Name, mainDepots, dlcDepots)
}
