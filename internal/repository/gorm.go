package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/snnyvrz/book-catalog/internal/model"
	"gorm.io/gorm"
)

// pgStringDataRightTruncation is the SQLSTATE postgres uses for values wider
// than a varchar column.
const pgStringDataRightTruncation = "22001"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type GormBookStore struct {
	db *gorm.DB
}

func NewGormBookStore(db *gorm.DB) *GormBookStore {
	return &GormBookStore{db: db}
}

func (r *GormBookStore) List(ctx context.Context, params BookListParams) (BookListResult, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&model.Book{})

	if params.Query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(params.Query)) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!'",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return BookListResult{}, fmt.Errorf("count books: %w", err)
	}

	books := make([]model.Book, 0, params.PerPage)
	if int64(params.offset()) >= total {
		return BookListResult{Books: books, Total: total}, nil
	}
	if err := query.
		Order(sortColumns[params.SortBy] + " " + params.SortOrder).
		Order("id " + params.SortOrder).
		Offset(params.offset()).
		Limit(params.PerPage).
		Find(&books).Error; err != nil {
		return BookListResult{}, fmt.Errorf("list books: %w", err)
	}

	return BookListResult{Books: books, Total: total}, nil
}

func (r *GormBookStore) Search(ctx context.Context, params BookListParams) (BookListResult, error) {
	return r.List(ctx, params)
}

func (r *GormBookStore) Get(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return &book, nil
}

func (r *GormBookStore) Create(ctx context.Context, book *model.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return translateError(fmt.Errorf("create book: %w", err))
	}
	return nil
}

func (r *GormBookStore) Update(ctx context.Context, id uint, patch BookPatch) (*model.Book, error) {
	var book model.Book

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}

		updates := map[string]any{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Author != nil {
			updates["author"] = *patch.Author
		}

		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&book, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateError(fmt.Errorf("update book %d: %w", id, err))
	}

	return &book, nil
}

func (r *GormBookStore) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBookStore) BulkCreate(ctx context.Context, books []model.Book) (int64, error) {
	if len(books) == 0 {
		return 0, nil
	}

	var created int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Create(&books)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, translateError(fmt.Errorf("bulk create books: %w", err))
	}

	return created, nil
}

func (r *GormBookStore) Purge(ctx context.Context) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Book{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.Book{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("purge books: %w", err)
	}

	return total, nil
}

func (r *GormBookStore) FindDuplicate(ctx context.Context, title, author string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("LOWER(TRIM(title)) = ? AND LOWER(TRIM(author)) = ?", normalizeKey(title), normalizeKey(author)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("find duplicate book: %w", err)
	}
	return count > 0, nil
}

func (r *GormBookStore) Export(ctx context.Context, fields []string) ([]model.Book, error) {
	cols, err := exportColumnsFor(fields)
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.WithContext(ctx).
		Select(cols).
		Order("id asc").
		Find(&books).Error; err != nil {
		return nil, fmt.Errorf("export books: %w", err)
	}

	return books, nil
}

func (r *GormBookStore) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgStringDataRightTruncation {
		return fmt.Errorf("%w: %s", ErrValueTooLong, pgErr.Message)
	}
	return err
}
