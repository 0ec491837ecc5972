package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/logging"
	"github.com/snnyvrz/book-catalog/internal/metrics"
	"github.com/snnyvrz/book-catalog/internal/model"
	"github.com/snnyvrz/book-catalog/internal/validation"
	"go.uber.org/zap"
)

// BulkCreateBooks godoc
// @Summary      Create many books
// @Description  Inserts every book in one transaction. Nothing is stored if any row fails.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      BulkCreateBooksRequest  true  "Books to create"
// @Success      201      {object}  BulkCreateBooksResponse
// @Failure      422      {object}  validation.ErrorResponse  "Validation error"
// @Failure      500      {object}  MessageResponse           "Internal server error"
// @Router       /books/bulk [post]
func (h *BookHandler) BulkCreateBooks(c *gin.Context) {
	var req BulkCreateBooksRequest
	if !validation.BindAndValidateJSON(c, &req, bulkMessages) {
		return
	}

	books := make([]model.Book, 0, len(req.Books))
	for _, b := range req.Books {
		books = append(books, model.Book{Title: b.Title, Author: b.Author})
	}

	count, err := h.store.BulkCreate(c.Request.Context(), books)
	if err != nil {
		h.writeServerError(c, http.StatusInternalServerError, msgBulkFailed, err)
		return
	}
	if count == 0 {
		h.writeServerError(c, http.StatusInternalServerError, msgBulkFailed,
			fmt.Errorf("bulk insert of %d books: %s", len(books), errNothingPersisted))
		return
	}

	h.metrics.BooksWritten(metrics.OpBulk, count)

	c.JSON(http.StatusCreated, BulkCreateBooksResponse{
		Success: true,
		Message: msgBooksCreated,
		Count:   count,
	})
}

// PurgeBooks godoc
// @Summary      Delete every book
// @Description  Not available in production.
// @Tags         books
// @Produce      json
// @Success      200  {object}  PurgeBooksResponse
// @Failure      500  {object}  MessageResponse  "Disabled in production or store failure"
// @Router       /books/purge [delete]
func (h *BookHandler) PurgeBooks(c *gin.Context) {
	if h.env.IsProduction() {
		_ = c.Error(ErrPurgeDisabled)
		logging.FromContext(c, h.logger).Warn("purge refused", zap.String("env", string(h.env)))
		writeError(c, http.StatusInternalServerError, msgPurgeFailed, errPurgeProduction)
		return
	}

	deleted, err := h.store.Purge(c.Request.Context())
	if err != nil {
		h.writeServerError(c, http.StatusInternalServerError, msgPurgeFailed, err)
		return
	}

	h.metrics.BooksWritten(metrics.OpPurge, deleted)

	c.JSON(http.StatusOK, PurgeBooksResponse{
		Success:      true,
		Message:      msgBooksPurged,
		DeletedCount: deleted,
	})
}
