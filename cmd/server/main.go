package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/valtools/valtools/internal/server/handlers"
	"github.com/valtools/valtools/internal/server/middleware"
	"github.com/valtools/valtools/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	shutdownTimeout = 10 * time.Second

	rateLimit       = 60
	rateLimitWindow = time.Minute
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "valtools-server.db", "Path to SQLite database")
	accessKey := flag.String("access-key", "", "Storage access key (or VALTOOLS_ACCESS_KEY env)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := newLogger(*logLevel)

	key := *accessKey
	if key == "" {
		key = os.Getenv("VALTOOLS_ACCESS_KEY")
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Access key is required: pass -access-key or set VALTOOLS_ACCESS_KEY")
		os.Exit(1)
	}

	if err := run(*addr, *dbPath, key, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(addr, dbPath, accessKey string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ключ хранится только как bcrypt-хеш
	accessKeyHash, err := bcrypt.GenerateFromPassword([]byte(accessKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash access key: %w", err)
	}

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	binsHandler := handlers.NewBinsHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	// Bin-маршруты закрыты ключом, health открыт
	bins := http.NewServeMux()
	bins.HandleFunc("GET /v3/b/{id}/latest", binsHandler.GetLatest)
	bins.HandleFunc("PUT /v3/b/{id}", binsHandler.Replace)
	bins.HandleFunc("POST /v3/b", binsHandler.Create)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("/v3/", middleware.AuthMiddleware(logger, accessKeyHash)(bins))

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/health"})(
			middleware.RateLimitMiddleware(rateLimit, rateLimitWindow, logger)(mux),
		),
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "version", Version)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("ValTools Storage Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
