package main

// @title           Book Catalog API
// @version         1.0
// @description     API for managing a catalog of books.

// @contact.name   Sina Niyavarzi
// @contact.email  sinaniya@gmail.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/db"
	"github.com/snnyvrz/book-catalog/internal/logging"
	"github.com/snnyvrz/book-catalog/internal/metrics"
	"github.com/snnyvrz/book-catalog/internal/server"
	"go.uber.org/zap"
)

const appVersion = "0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatal("application exited: ", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)

	logger := logging.New(cfg.AppEnv.IsProduction(), cfg.LogLevel,
		zap.String("app.version", appVersion),
		zap.String("app.env", string(cfg.AppEnv)),
	)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}()

	router, err := server.NewRouter(server.Deps{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Metrics:   metrics.New(),
		StartTime: startTime,
		Version:   appVersion,
	})
	if err != nil {
		return err
	}

	return server.New(cfg.Server, router, logger).Run(ctx)
}
