package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/book-catalog/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory sqlite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&model.Book{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewErrorDB returns a database without the books table, so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func SeedBook(t *testing.T, db *gorm.DB, title, author string) model.Book {
	t.Helper()

	book := model.Book{
		Title:  title,
		Author: author,
	}

	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return book
}

// SeedBookAt seeds a book with fixed timestamps so ordering is deterministic.
func SeedBookAt(t *testing.T, db *gorm.DB, title, author string, at time.Time) model.Book {
	t.Helper()

	book := model.Book{
		Title:     title,
		Author:    author,
		CreatedAt: at,
		UpdatedAt: at,
	}

	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return book
}

func CountBooks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&model.Book{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count books: %v", err)
	}
	return n
}
