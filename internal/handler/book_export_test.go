package handler

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/testutil"
	"github.com/snnyvrz/book-catalog/internal/validation"
)

func TestDownloadBooks_CSV(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	at := time.Date(2023, 11, 5, 8, 30, 0, 0, time.UTC)
	testutil.SeedBookAt(t, db, "Dune", "Frank Herbert", at)
	testutil.SeedBookAt(t, db, "Tom, \"Jerry\"", "Anon", at)

	w := doRequest(t, router, http.MethodPost, "/books/download/csv", ExportBooksRequest{
		Fields: []string{"author", "title", "created_at"},
	})
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=UTF-8" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=books-2024-03-09.csv" {
		t.Errorf("unexpected content disposition %q", cd)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}

	want := [][]string{
		{"author", "title", "created_at"},
		{"Frank Herbert", "Dune", "2023-11-05 08:30:00"},
		{"Anon", "Tom, \"Jerry\"", "2023-11-05 08:30:00"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d rows, got %d: %v", len(want), len(records), records)
	}
	for i := range want {
		if strings.Join(records[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d: expected %v, got %v", i, want[i], records[i])
		}
	}
}

func TestDownloadBooks_XML(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	testutil.SeedBook(t, db, "Pride & Prejudice", "Jane Austen")
	testutil.SeedBook(t, db, "<Untitled>", "Anon")

	w := doRequest(t, router, http.MethodPost, "/books/download/xml", ExportBooksRequest{
		Fields: []string{"title"},
	})
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=books-2024-03-09.xml" {
		t.Errorf("unexpected content disposition %q", cd)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, `<?xml version="1.0"?>`) {
		t.Errorf("expected xml declaration, got %q", body)
	}
	if !strings.Contains(body, "<title>Pride &amp; Prejudice</title>") {
		t.Errorf("expected escaped title, got %q", body)
	}
	if strings.Contains(body, "<author>") {
		t.Errorf("did not expect unrequested fields, got %q", body)
	}

	var doc struct {
		Books []struct {
			Title string `xml:"title"`
		} `xml:"book"`
	}
	if err := xml.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse xml: %v", err)
	}
	if len(doc.Books) != 2 || doc.Books[1].Title != "<Untitled>" {
		t.Errorf("unexpected books: %+v", doc.Books)
	}
}

func TestDownloadBooks_EmptyStoreCSV(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	w := doRequest(t, router, http.MethodPost, "/books/download/csv", ExportBooksRequest{
		Fields: []string{"title", "author"},
	})
	expectStatus(t, w, http.StatusOK)

	if w.Body.String() != "title,author\n" {
		t.Errorf("expected header only, got %q", w.Body.String())
	}
}

func TestDownloadBooks_UnsupportedFormat(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	for _, format := range []string{"pdf", "CSV", "json"} {
		t.Run(format, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/books/download/"+format, ExportBooksRequest{
				Fields: []string{"title"},
			})
			expectStatus(t, w, http.StatusInternalServerError)
			expectMessage(t, w, "Download failed", "Unsupported format")

			if cd := w.Header().Get("Content-Disposition"); cd != "" {
				t.Errorf("expected no attachment header, got %q", cd)
			}
		})
	}
}

func TestDownloadBooks_ValidationBeforeFormat(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := setupTestRouter(db)

	tests := []struct {
		name    string
		path    string
		body    any
		field   string
		message string
	}{
		{"missing fields", "/books/download/csv", map[string]any{}, "fields", "The fields field is required."},
		{"empty fields", "/books/download/xml", map[string]any{"fields": []string{}}, "fields", "The fields field is required."},
		{"unknown field", "/books/download/csv", map[string]any{"fields": []string{"title", "isbn"}}, "fields.1", ""},
		{"invalid body and format", "/books/download/pdf", map[string]any{"fields": []string{"price"}}, "fields.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, tt.path, tt.body)
			expectStatus(t, w, http.StatusUnprocessableEntity)

			resp := decode[validation.ErrorResponse](t, w)
			if resp.Message != "Validation error" {
				t.Errorf("unexpected message %q", resp.Message)
			}
			expectFieldError(t, resp, tt.field, tt.message)
		})
	}
}

func TestDownloadBooks_StoreError(t *testing.T) {
	store := &fakeBookStore{
		ExportFn: func(ctx context.Context, fields []string) ([]model.Book, error) {
			return nil, errors.New("read failed")
		},
	}
	router := setupRouterWithStore(store, config.EnvTesting)

	w := doRequest(t, router, http.MethodPost, "/books/download/csv", ExportBooksRequest{Fields: []string{"title"}})
	expectStatus(t, w, http.StatusInternalServerError)
	expectMessage(t, w, "Download failed", "")
}

func TestDownloadBooks_PassesFieldsInOrder(t *testing.T) {
	var got []string
	store := &fakeBookStore{
		ExportFn: func(ctx context.Context, fields []string) ([]model.Book, error) {
			got = fields
			return []model.Book{{ID: 1, Title: "T", Author: "A"}}, nil
		},
	}
	router := setupRouterWithStore(store, config.EnvTesting)

	w := doRequest(t, router, http.MethodPost, "/books/download/csv", ExportBooksRequest{Fields: []string{"author", "title"}})
	expectStatus(t, w, http.StatusOK)

	if strings.Join(got, ",") != "author,title" {
		t.Errorf("expected fields in request order, got %v", got)
	}
	if w.Body.String() != "author,title\nA,T\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}
