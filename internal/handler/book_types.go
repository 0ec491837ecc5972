package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/repository"
	"github.com/snnyvrz/book-catalog/internal/validation"
)

type CreateBookRequest struct {
	Title  string `json:"title" binding:"required,max=255" example:"Dune"`
	Author string `json:"author" binding:"required,max=255" example:"Frank Herbert"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
}

// UpdateBookRequest fields are optional; a present field must be non-empty,
// and an explicit null counts as empty.
type UpdateBookRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=255" example:"Dune Messiah"`
	Author *string `json:"author" binding:"omitempty,min=1,max=255" example:"Frank Herbert"`

	nulls []string
}

func (r *UpdateBookRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateBookRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.nulls = nil
	for _, field := range []string{"title", "author"} {
		if v, ok := raw[field]; ok && string(bytes.TrimSpace(v)) == "null" {
			r.nulls = append(r.nulls, field)
		}
	}
	return nil
}

// Check reports fields sent as null.
func (r *UpdateBookRequest) Check(errs validation.Errors) {
	for _, field := range r.nulls {
		if !errs.Has(field) {
			errs.Add(field, fmt.Sprintf("The %s field is required.", field))
		}
	}
}

func (r *UpdateBookRequest) Normalize() {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.Author != nil {
		v := strings.TrimSpace(*r.Author)
		r.Author = &v
	}
}

func (r UpdateBookRequest) patch() repository.BookPatch {
	return repository.BookPatch{Title: r.Title, Author: r.Author}
}

type BulkCreateBooksRequest struct {
	Books []CreateBookRequest `json:"books" binding:"required,min=1,dive"`
}

func (r *BulkCreateBooksRequest) Normalize() {
	for i := range r.Books {
		r.Books[i].Normalize()
	}
}

type ExportBooksRequest struct {
	Fields []string `json:"fields" binding:"required,min=1,dive,oneof=title author created_at" example:"title,author"`
}

type ListBooksQuery struct {
	Page      *int   `form:"page" binding:"omitempty,min=1"`
	PerPage   *int   `form:"per_page" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=title author created_at updated_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

func (q ListBooksQuery) params() repository.BookListParams {
	p := repository.BookListParams{SortBy: q.SortBy, SortOrder: q.SortOrder}
	if q.Page != nil {
		p.Page = *q.Page
	}
	if q.PerPage != nil {
		p.PerPage = *q.PerPage
	}
	return p.Normalize()
}

type SearchBooksQuery struct {
	Q         string `form:"q" binding:"required,max=255"`
	Page      *int   `form:"page" binding:"omitempty,min=1"`
	PerPage   *int   `form:"per_page" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=title author created_at updated_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

func (q SearchBooksQuery) params() repository.BookListParams {
	p := ListBooksQuery{
		Page:      q.Page,
		PerPage:   q.PerPage,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}.params()
	p.Query = q.Q
	return p
}

type Book struct {
	ID        uint      `json:"id" example:"1"`
	Title     string    `json:"title" example:"Dune"`
	Author    string    `json:"author" example:"Frank Herbert"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Book   `json:"data"`
}

type ListMeta struct {
	CurrentPage int    `json:"current_page"`
	PerPage     int    `json:"per_page"`
	Total       int64  `json:"total"`
	LastPage    int    `json:"last_page"`
	SortBy      string `json:"sort_by"`
	SortOrder   string `json:"sort_order"`
	Query       string `json:"query,omitempty"`
}

type ListBooksResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    []Book   `json:"data"`
	Meta    ListMeta `json:"meta"`
}

type BulkCreateBooksResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

type PurgeBooksResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// MessageResponse is the envelope for outcomes without a payload, failures included.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func toBook(b model.Book) Book {
	return Book{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBookResponse(message string, b model.Book) BookResponse {
	return BookResponse{
		Success: true,
		Message: message,
		Data:    toBook(b),
	}
}

func toListBooksResponse(message string, result repository.BookListResult, params repository.BookListParams) ListBooksResponse {
	data := make([]Book, 0, len(result.Books))
	for _, b := range result.Books {
		data = append(data, toBook(b))
	}

	return ListBooksResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta: ListMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			Total:       result.Total,
			LastPage:    result.LastPage(params.PerPage),
			SortBy:      params.SortBy,
			SortOrder:   params.SortOrder,
			Query:       params.Query,
		},
	}
}
