package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/repository"
	"github.com/snnyvrz/book-catalog/internal/validation"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

type fakeBookStore struct {
	ListFn          func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error)
	SearchFn        func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error)
	GetFn           func(ctx context.Context, id uint) (*model.Book, error)
	CreateFn        func(ctx context.Context, b *model.Book) error
	UpdateFn        func(ctx context.Context, id uint, patch repository.BookPatch) (*model.Book, error)
	DeleteFn        func(ctx context.Context, id uint) error
	BulkCreateFn    func(ctx context.Context, books []model.Book) (int64, error)
	PurgeFn         func(ctx context.Context) (int64, error)
	FindDuplicateFn func(ctx context.Context, title, author string) (bool, error)
	ExportFn        func(ctx context.Context, fields []string) ([]model.Book, error)
	PingFn          func(ctx context.Context) error
}

func (f *fakeBookStore) List(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
	if f.ListFn != nil {
		return f.ListFn(ctx, params)
	}
	return repository.BookListResult{}, nil
}

func (f *fakeBookStore) Search(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
	if f.SearchFn != nil {
		return f.SearchFn(ctx, params)
	}
	return repository.BookListResult{}, nil
}

func (f *fakeBookStore) Get(ctx context.Context, id uint) (*model.Book, error) {
	if f.GetFn != nil {
		return f.GetFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookStore) Create(ctx context.Context, b *model.Book) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookStore) Update(ctx context.Context, id uint, patch repository.BookPatch) (*model.Book, error) {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, id, patch)
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookStore) Delete(ctx context.Context, id uint) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeBookStore) BulkCreate(ctx context.Context, books []model.Book) (int64, error) {
	if f.BulkCreateFn != nil {
		return f.BulkCreateFn(ctx, books)
	}
	return int64(len(books)), nil
}

func (f *fakeBookStore) Purge(ctx context.Context) (int64, error) {
	if f.PurgeFn != nil {
		return f.PurgeFn(ctx)
	}
	return 0, nil
}

func (f *fakeBookStore) FindDuplicate(ctx context.Context, title, author string) (bool, error) {
	if f.FindDuplicateFn != nil {
		return f.FindDuplicateFn(ctx, title, author)
	}
	return false, nil
}

func (f *fakeBookStore) Export(ctx context.Context, fields []string) ([]model.Book, error) {
	if f.ExportFn != nil {
		return f.ExportFn(ctx, fields)
	}
	return nil, nil
}

func (f *fakeBookStore) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return nil
}

func setupRouterWithStore(store repository.BookStore, env config.Environment, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	h := NewBookHandler(store, env, opts...)
	h.RegisterRoutes(r.Group(""))

	return r
}

func setupTestRouter(db *gorm.DB, opts ...Option) *gin.Engine {
	return setupRouterWithStore(repository.NewGormBookStore(db), config.EnvTesting, opts...)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, w.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("expected status %d, got %d, body=%s", want, w.Code, w.Body.String())
	}
}

func expectFieldError(t *testing.T, resp validation.ErrorResponse, field, message string) {
	t.Helper()

	msgs, ok := resp.Errors[field]
	if !ok {
		t.Fatalf("expected error for field %q, got %v", field, resp.Errors)
	}
	if message == "" {
		return
	}
	for _, m := range msgs {
		if m == message {
			return
		}
	}
	t.Errorf("expected %q among %q errors, got %v", message, field, msgs)
}

func expectMessage(t *testing.T, w *httptest.ResponseRecorder, message, detail string) {
	t.Helper()

	resp := decode[MessageResponse](t, w)
	if resp.Success {
		t.Errorf("expected success=false")
	}
	if resp.Message != message {
		t.Errorf("expected message %q, got %q", message, resp.Message)
	}
	if resp.Error != detail {
		t.Errorf("expected error %q, got %q", detail, resp.Error)
	}
}
