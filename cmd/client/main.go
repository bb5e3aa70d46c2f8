package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/valtools/valtools/internal/client/api"
	"github.com/valtools/valtools/internal/client/cli"
	"github.com/valtools/valtools/internal/client/guard"
	"github.com/valtools/valtools/internal/client/iocli"
	"github.com/valtools/valtools/internal/client/session"
	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/client/storage/boltdb"
	"github.com/valtools/valtools/internal/client/vault"
	"github.com/valtools/valtools/internal/crypto"
	"github.com/valtools/valtools/internal/inject"
	"github.com/valtools/valtools/internal/steam"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Параметры развертывания по умолчанию. Ключи кодека и идентификаторы
// bin-ов общие для всех установок: доступ разграничивается паролем
// админа и voucher-ами, а не этими константами.
const (
	defaultAPIURL    = "https://api.jsonbin.io"
	defaultAccessKey = "vt-389ecd0996b7fb29ebc854db"
	defaultVaultBin  = "058e5f75-6bf6-4c0c-b728-530f2e6324df"
	defaultGuardBin  = "add386e7-3efa-44d6-a0ac-9492226ebd79"

	vaultKeyEncoded = "HfyB5pfJBwcIr6wBS30bj0VkWDVnpgzwmlFP5Htgnig="
	guardKeyEncoded = "JiUyDIwVpq9YsI-AukKS81KK6jRB80dLwB3PYvUTSjQ="
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	apiURL := flag.String("api", defaultAPIURL, "Storage API base URL")
	accessKey := flag.String("access-key", defaultAccessKey, "Storage API access key")
	vaultBin := flag.String("bin", defaultVaultBin, "Account vault bin id")
	guardBin := flag.String("guard-bin", defaultGuardBin, "Steam Guard sub-vault bin id")
	dbPath := flag.String("db", "valtools-client.db", "Path to local database")
	helperPath := flag.String("helper", "steam-login-helper.exe", "Path to the Steam login helper binary")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := newLogger(*logLevel)
	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		usageOnly(stdio, logger)
		os.Exit(1)
	}
	command := args[0]

	ctx := context.Background()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	vaultKey, err := crypto.DecodeKey(vaultKeyEncoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid vault key: %v\n", err)
		os.Exit(1)
	}
	guardKey, err := crypto.DecodeKey(guardKeyEncoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid guard key: %v\n", err)
		os.Exit(1)
	}

	installID, err := ensureInstallID(ctx, boltStorage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize settings: %v\n", err)
		os.Exit(1)
	}

	// Клиенты удаленных bin-ов
	vaultStore := api.NewClient(*apiURL, *vaultBin, *accessKey)
	guardStore := api.NewClient(*apiURL, *guardBin, *accessKey)

	// Сервисы
	vaultSvc := vault.NewService(vaultStore, vaultKey, logger).WithCache(boltStorage, *vaultBin)
	guardSvc := guard.NewService(guardStore, guardKey, logger)
	sessions := session.NewManager(vaultSvc, guardSvc, boltStorage, sessionSecret(vaultKey, installID), logger)

	resolver := steam.NewResolver(boltStorage, logger)
	hub := inject.NewHubClient(logger)
	injector := inject.NewInjector(hub, resolver, boltStorage, logger)
	appInfo := steam.NewAppInfoClient(logger)
	runner := inject.NewRunner(*helperPath, logger)

	c := cli.New(stdio, vaultSvc, guardSvc, sessions, injector, appInfo, resolver, runner, boltStorage, logger)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// usageOnly печатает справку без подключения сервисов
func usageOnly(io iocli.IO, logger *slog.Logger) {
	cli.New(io, nil, nil, nil, nil, nil, nil, nil, nil, logger).PrintUsage()
}

// ensureInstallID возвращает постоянный идентификатор установки,
// создавая его при первом запуске
func ensureInstallID(ctx context.Context, settings storage.SettingsStorage) (string, error) {
	current, err := settings.GetSettings(ctx)
	if err != nil && err != storage.ErrSettingsNotFound {
		return "", err
	}
	if current == nil {
		current = &storage.Settings{}
	}
	if current.InstallID != "" {
		return current.InstallID, nil
	}

	current.InstallID = uuid.New().String()
	if err := settings.SaveSettings(ctx, current); err != nil {
		return "", err
	}
	return current.InstallID, nil
}

// sessionSecret деривирует ключ подписи локального токена сессии.
// Примесь InstallID делает токены непереносимыми между установками.
func sessionSecret(key []byte, installID string) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write([]byte(installID))
	return h.Sum(nil)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("ValTools Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
