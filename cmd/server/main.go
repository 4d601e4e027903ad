package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/parts-inventory/internal/config"
	"github.com/hongminglow/parts-inventory/internal/logger"
	"github.com/hongminglow/parts-inventory/internal/server"
	postgres "github.com/hongminglow/parts-inventory/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()
	zap.ReplaceGlobals(logr)

	if envErr != nil {
		logr.Info("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logr.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	srv := server.New(cfg, store, logr)

	go func() {
		logr.Info("parts inventory listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logr.Error("graceful shutdown error", zap.Error(err))
	}
}
