package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meur/termforge/internal/api"
	"github.com/meur/termforge/internal/config"
	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/logging"
	"github.com/meur/termforge/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Parse flags; empty values keep whatever config/env provided
	configPath := flag.String("config", "", "TOML config file")
	port := flag.Int("port", 0, "Server port")
	dbPath := flag.String("db", "", "SQLite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize storage
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	editor := glossary.NewEditor(
		glossary.NewStore(store, cfg.Glossary.Version, cfg.Glossary.Editor),
		glossary.NewSurface(),
	)

	// Same as a page load: a broken blob is reported, not adopted
	if eff := editor.Init(context.Background()); eff.Err != nil {
		logger.Error("Glossary not loaded", zap.String("reason", eff.Error))
	} else if eff.Notice != nil {
		logger.Info(eff.Notice.Message, zap.Int("terms", editor.Store().Stats().TotalTerms))
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: api.New(editor, store, logger, api.Options{
			MaxImportBytes: cfg.Glossary.MaxImportBytes,
			RatePerMinute:  cfg.HTTP.RatePerMinute,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logger.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
		}
	}()

	logger.Info("termforge starting",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("db", cfg.Storage.Path),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
