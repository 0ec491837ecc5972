package db

import (
	"context"
	"fmt"
	"time"

	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is an opened book store together with its release function.
type Store struct {
	repository.BookStore
	Close func() error
}

// Open connects the configured backend and returns a ready store. SQL
// backends are migrated before use.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	if cfg.DB.Driver == config.DriverBolt {
		bdb, err := repository.OpenBolt(cfg.DB.Path, cfg.DB.BoltTimeout)
		if err != nil {
			return nil, err
		}
		log.Info("bolt store opened", zap.String("path", cfg.DB.Path))

		store := repository.NewBoltBookStore(bdb)
		return &Store{BookStore: store, Close: store.Close}, nil
	}

	gdb, err := ConnectWithRetry(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return migrate(ctx, gdb)
}

// migrate prepares the schema and wraps gdb as a Store. The pool is closed
// when migration fails.
func migrate(ctx context.Context, gdb *gorm.DB) (*Store, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying db: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(&model.Book{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate books: %w", err)
	}

	return &Store{
		BookStore: repository.NewGormBookStore(gdb),
		Close:     sqlDB.Close,
	}, nil
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.DB.Driver)
	}
}

// ConnectWithRetry opens the SQL database and pings it, retrying while the
// server is still starting. It gives up after DB_CONNECT_ATTEMPTS tries or
// when ctx is cancelled.
func ConnectWithRetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.GinMode == "debug" {
		logLevel = logger.Info
	}

	attempts := cfg.DB.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err = open(ctx, d, cfg, logLevel)
		if err == nil {
			log.Info("database connected",
				zap.String("driver", cfg.DB.Driver),
				zap.Int("attempt", attempt),
			)
			return db, nil
		}

		log.Warn("db not ready",
			zap.String("driver", cfg.DB.Driver),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DB.ConnectDelay):
		}
	}

	return nil, fmt.Errorf("could not connect to db after %d attempts: %w", attempts, err)
}

func open(ctx context.Context, d gorm.Dialector, cfg *config.Config, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}
