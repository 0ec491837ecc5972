package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/snnyvrz/book-catalog/internal/model"
)

var (
	ErrNotFound = errors.New("book not found")

	// ErrValueTooLong is returned when the database rejects a value wider
	// than its column.
	ErrValueTooLong = errors.New("value too long for column")
)

const (
	DefaultPage      = 1
	DefaultPerPage   = 5
	MaxPerPage       = 100
	DefaultSortBy    = "created_at"
	DefaultSortOrder = "desc"
)

// sortColumns is the whitelist of orderable columns.
var sortColumns = map[string]string{
	"title":      "title",
	"author":     "author",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

var exportColumns = map[string]string{
	model.FieldTitle:     "title",
	model.FieldAuthor:    "author",
	model.FieldCreatedAt: "created_at",
}

type BookListParams struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
	// Query restricts results to books whose title or author contains it,
	// case-insensitively. Empty means no filter.
	Query string
}

// Normalize fills defaults and clamps values the store cannot honour.
func (p BookListParams) Normalize() BookListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = DefaultSortBy
	}
	p.SortOrder = strings.ToLower(p.SortOrder)
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = DefaultSortOrder
	}
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// offset saturates at math.MaxInt instead of overflowing for huge pages.
func (p BookListParams) offset() int {
	if p.Page <= 1 || p.PerPage < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

type BookListResult struct {
	Books []model.Book
	Total int64
}

// LastPage is never below 1, even for an empty result.
func (r BookListResult) LastPage(perPage int) int {
	if perPage < 1 || r.Total == 0 {
		return 1
	}
	return int((r.Total + int64(perPage) - 1) / int64(perPage))
}

// BookPatch carries the fields of a partial update. Nil means unchanged.
type BookPatch struct {
	Title  *string
	Author *string
}

func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil
}

func (p BookPatch) apply(b *model.Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
}

type BookStore interface {
	List(ctx context.Context, params BookListParams) (BookListResult, error)
	Search(ctx context.Context, params BookListParams) (BookListResult, error)
	Get(ctx context.Context, id uint) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, id uint, patch BookPatch) (*model.Book, error)
	Delete(ctx context.Context, id uint) error
	// BulkCreate inserts every book or none of them.
	BulkCreate(ctx context.Context, books []model.Book) (int64, error)
	// Purge removes every book and reports how many existed.
	Purge(ctx context.Context) (int64, error)
	// FindDuplicate reports whether a book with the same title and author
	// exists, comparing trimmed values case-insensitively.
	FindDuplicate(ctx context.Context, title, author string) (bool, error)
	// Export returns every book ordered by id with only the named fields loaded.
	Export(ctx context.Context, fields []string) ([]model.Book, error)
	Ping(ctx context.Context) error
}

func exportColumnsFor(fields []string) ([]string, error) {
	cols := make([]string, 0, len(fields)+1)
	seen := map[string]bool{"id": true}
	cols = append(cols, "id")

	for _, f := range fields {
		col, ok := exportColumns[f]
		if !ok {
			return nil, errors.New("unknown export field: " + f)
		}
		if seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
