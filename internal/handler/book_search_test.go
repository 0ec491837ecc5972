package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/repository"
	"github.com/snnyvrz/book-catalog/internal/testutil"
	"github.com/snnyvrz/book-catalog/internal/validation"
)

func TestSearchBooks_MatchesTitleOrAuthor(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	testutil.SeedBook(t, db, "The Go Programming Language", "Donovan")
	testutil.SeedBook(t, db, "Dune", "Frank Herbert")
	testutil.SeedBook(t, db, "Ergo Proxy", "Someone")
	testutil.SeedBook(t, db, "Refactoring", "Martin Fowler")

	w := doRequest(t, router, http.MethodGet, "/books/search?q=GO&sort_by=title&sort_order=asc", nil)
	expectStatus(t, w, http.StatusOK)

	resp := decode[ListBooksResponse](t, w)
	if resp.Message != "Search results retrieved successfully." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Meta.Query != "GO" || resp.Meta.Total != 2 {
		t.Errorf("unexpected meta: %+v", resp.Meta)
	}
	if len(resp.Data) != 2 || resp.Data[0].Title != "Ergo Proxy" || resp.Data[1].Title != "The Go Programming Language" {
		t.Errorf("unexpected results: %+v", resp.Data)
	}

	w = doRequest(t, router, http.MethodGet, "/books/search?q=fowler", nil)
	expectStatus(t, w, http.StatusOK)

	resp = decode[ListBooksResponse](t, w)
	if len(resp.Data) != 1 || resp.Data[0].Author != "Martin Fowler" {
		t.Errorf("expected author match, got %+v", resp.Data)
	}
}

func TestSearchBooks_WildcardsAreLiteral(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	testutil.SeedBook(t, db, "100% Pure", "A")
	testutil.SeedBook(t, db, "1000 Nights", "B")

	w := doRequest(t, router, http.MethodGet, "/books/search?q="+url.QueryEscape("0%"), nil)
	expectStatus(t, w, http.StatusOK)

	resp := decode[ListBooksResponse](t, w)
	if resp.Meta.Total != 1 || resp.Data[0].Title != "100% Pure" {
		t.Errorf("expected only the literal match, got %+v", resp.Data)
	}
}

func TestSearchBooks_Paginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	for _, title := range []string{"Saga 1", "Saga 2", "Saga 3"} {
		testutil.SeedBook(t, db, title, "Author")
	}

	w := doRequest(t, router, http.MethodGet, "/books/search?q=saga&per_page=2&page=2", nil)
	expectStatus(t, w, http.StatusOK)

	resp := decode[ListBooksResponse](t, w)
	if len(resp.Data) != 1 || resp.Meta.LastPage != 2 || resp.Meta.Total != 3 {
		t.Errorf("unexpected page: data=%+v meta=%+v", resp.Data, resp.Meta)
	}
}

func TestSearchBooks_PageFarBeyondLastIsEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	testutil.SeedBook(t, db, "Saga", "Author")

	w := doRequest(t, router, http.MethodGet, "/books/search?q=a&page=100000000000000000&per_page=100", nil)
	expectStatus(t, w, http.StatusOK)

	resp := decode[ListBooksResponse](t, w)
	if len(resp.Data) != 0 || resp.Meta.Total != 1 || resp.Meta.LastPage != 1 {
		t.Errorf("expected an empty page, got data=%+v meta=%+v", resp.Data, resp.Meta)
	}
}

func TestSearchBooks_InvalidQuery(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	tests := []struct {
		name    string
		query   string
		field   string
		message string
	}{
		{"missing q", "", "q", "The q field is required."},
		{"blank q", "q=%20%20", "q", "The q field is required."},
		{"q too long", "q=" + strings.Repeat("x", 256), "q", "The q field must not be greater than 255 characters."},
		{"bad per_page", "q=go&per_page=1.5", "per_page", "The per page field must be an integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/books/search?"+tt.query, nil)
			expectStatus(t, w, http.StatusUnprocessableEntity)
			expectFieldError(t, decode[validation.ErrorResponse](t, w), tt.field, tt.message)
		})
	}
}

func TestSearchBooks_StoreError(t *testing.T) {
	store := &fakeBookStore{
		SearchFn: func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
			return repository.BookListResult{}, errors.New("boom")
		},
	}
	router := setupRouterWithStore(store, config.EnvTesting)

	w := doRequest(t, router, http.MethodGet, "/books/search?q=go", nil)
	expectStatus(t, w, http.StatusInternalServerError)
	expectMessage(t, w, "Failed to search books.", "")
}

func TestSearchBooks_PassesNormalizedParams(t *testing.T) {
	var got repository.BookListParams
	store := &fakeBookStore{
		SearchFn: func(ctx context.Context, params repository.BookListParams) (repository.BookListResult, error) {
			got = params
			return repository.BookListResult{}, nil
		},
	}
	router := setupRouterWithStore(store, config.EnvTesting)

	w := doRequest(t, router, http.MethodGet, "/books/search?q=%20dune%20", nil)
	expectStatus(t, w, http.StatusOK)

	want := repository.BookListParams{Page: 1, PerPage: 5, SortBy: "created_at", SortOrder: "desc", Query: "dune"}
	if got != want {
		t.Errorf("expected params %+v, got %+v", want, got)
	}
}
