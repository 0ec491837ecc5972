package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/config"
	"github.com/snnyvrz/book-catalog/internal/logging"
	"github.com/snnyvrz/book-catalog/internal/metrics"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/repository"
	"github.com/snnyvrz/book-catalog/internal/validation"
	"go.uber.org/zap"
)

var bulkMessages = validation.Messages{
	"books.*.title.required":  "Each book must have a title",
	"books.*.author.required": "Each book must have an author",
}

type BookHandler struct {
	store           repository.BookStore
	env             config.Environment
	checkDuplicates bool
	logger          *zap.Logger
	metrics         *metrics.Metrics
	now             func() time.Time
}

type Option func(*BookHandler)

// WithDuplicateCheck toggles rejecting single creates whose title and
// author match an existing book.
func WithDuplicateCheck(enabled bool) Option {
	return func(h *BookHandler) {
		h.checkDuplicates = enabled
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(h *BookHandler) {
		h.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *BookHandler) {
		h.metrics = m
	}
}

// WithClock sets the time source used for export filenames.
func WithClock(now func() time.Time) Option {
	return func(h *BookHandler) {
		h.now = now
	}
}

func NewBookHandler(store repository.BookStore, env config.Environment, opts ...Option) *BookHandler {
	h := &BookHandler{
		store:           store,
		env:             env,
		checkDuplicates: true,
		logger:          zap.NewNop(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.CreateBook)
		books.GET("/search", h.SearchBooks)
		books.POST("/download/:format", h.DownloadBooks)
		books.POST("/bulk", h.BulkCreateBooks)
		books.DELETE("/purge", h.PurgeBooks)
		books.GET("/:id", h.GetBookByID)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

// ListBooks godoc
// @Summary      List books
// @Description  Paginated, sorted list of books
// @Tags         books
// @Produce      json
// @Param        page        query     int     false  "Page number"     default(1) minimum(1)
// @Param        per_page    query     int     false  "Items per page"  default(5) minimum(1) maximum(100)
// @Param        sort_by     query     string  false  "Sort column"     Enums(title,author,created_at,updated_at) default(created_at)
// @Param        sort_order  query     string  false  "Sort direction"  Enums(asc,desc) default(desc)
// @Success      200  {object}  ListBooksResponse
// @Failure      422  {object}  validation.ErrorResponse  "Invalid query parameters"
// @Failure      500  {object}  MessageResponse           "Internal server error"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q ListBooksQuery
	if !validation.BindAndValidateQuery(c, &q) {
		return
	}

	params := q.params()

	result, err := h.store.List(c.Request.Context(), params)
	if err != nil {
		h.writeServerError(c, http.StatusInternalServerError, msgListFailed, err)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(msgBooksRetrieved, result, params))
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Create a book from a title and an author
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest  true  "Book to create"
// @Success      201      {object}  BookResponse
// @Failure      422      {object}  validation.ErrorResponse  "Validation error or duplicate book"
// @Failure      500      {object}  MessageResponse           "Internal server error"
// @Router       /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req, nil) {
		return
	}

	ctx := c.Request.Context()

	if h.checkDuplicates {
		dup, err := h.store.FindDuplicate(ctx, req.Title, req.Author)
		if err != nil {
			h.writeServerError(c, http.StatusInternalServerError, msgCreateFailed, err)
			return
		}
		if dup {
			logging.FromContext(c, h.logger).Info("duplicate book rejected",
				zap.String("title", req.Title),
				zap.String("author", req.Author),
				zap.Error(ErrDuplicateBook),
			)
			writeDuplicate(c)
			return
		}
	}

	book := model.Book{
		Title:  req.Title,
		Author: req.Author,
	}

	if err := h.store.Create(ctx, &book); err != nil {
		if errors.Is(err, repository.ErrValueTooLong) {
			writeError(c, http.StatusUnprocessableEntity, validation.MessageValidationError, errValueTooLong)
			return
		}
		h.writeServerError(c, http.StatusInternalServerError, msgCreateFailed, err)
		return
	}

	h.metrics.BooksWritten(metrics.OpCreate, 1)

	c.JSON(http.StatusCreated, toBookResponse(msgBookCreated, book))
}

// GetBookByID godoc
// @Summary      Get a book by ID
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  BookResponse
// @Failure      404  {object}  MessageResponse  "Book not found"
// @Failure      500  {object}  MessageResponse  "Internal server error"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, ok := parseID(c, msgRetrieveFailed)
	if !ok {
		return
	}

	book, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(c, http.StatusNotFound, msgRetrieveFailed, errBookNotFound)
			return
		}
		h.writeServerError(c, http.StatusInternalServerError, msgRetrieveFailed, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(msgBookRetrieved, *book))
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Partially update a book. Omitted fields keep their value.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Book ID"
// @Param        payload  body      UpdateBookRequest  true  "Fields to update"
// @Success      200      {object}  BookResponse
// @Failure      404      {object}  MessageResponse           "Book not found"
// @Failure      422      {object}  validation.ErrorResponse  "Validation error"
// @Failure      500      {object}  MessageResponse           "Internal server error"
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, msgUpdateFailed)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.store.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(c, http.StatusNotFound, msgUpdateFailed, errBookNotFound)
			return
		}
		h.writeServerError(c, http.StatusInternalServerError, msgUpdateFailed, err)
		return
	}

	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req, nil) {
		return
	}

	updated, err := h.store.Update(ctx, id, req.patch())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(c, http.StatusNotFound, msgUpdateFailed, errBookNotFound)
		case errors.Is(err, repository.ErrValueTooLong):
			writeError(c, http.StatusUnprocessableEntity, validation.MessageValidationError, errValueTooLong)
		default:
			h.writeServerError(c, http.StatusInternalServerError, msgUpdateFailed, err)
		}
		return
	}

	if !req.patch().Empty() {
		h.metrics.BooksWritten(metrics.OpUpdate, 1)
	}

	c.JSON(http.StatusOK, toBookResponse(msgBookUpdated, *updated))
}

// DeleteBook godoc
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  MessageResponse  "Book not found"
// @Failure      500  {object}  MessageResponse  "Internal server error"
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, msgDeleteFailed)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(c, http.StatusNotFound, msgDeleteFailed, errBookNotFound)
			return
		}
		h.writeServerError(c, http.StatusInternalServerError, msgDeleteFailed, err)
		return
	}

	h.metrics.BooksWritten(metrics.OpDelete, 1)

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: msgBookDeleted,
	})
}

// parseID reads a positive integer id. Anything else cannot name a book,
// so it is answered as not found.
func parseID(c *gin.Context, failure string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, http.StatusNotFound, failure, errBookNotFound)
		return 0, false
	}
	return uint(id), true
}
