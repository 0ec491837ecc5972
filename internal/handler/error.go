package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/logging"
	"github.com/snnyvrz/book-catalog/internal/validation"
	"go.uber.org/zap"
)

var (
	ErrDuplicateBook = errors.New("a book with this title and author already exists")
	ErrPurgeDisabled = errors.New("bulk deletion is disabled in production")
)

const (
	msgBooksRetrieved   = "Books retrieved successfully."
	msgBookCreated      = "Book created successfully."
	msgBookRetrieved    = "Book retrieved successfully."
	msgBookUpdated      = "Book updated successfully."
	msgBookDeleted      = "Book deleted successfully."
	msgSearchRetrieved  = "Search results retrieved successfully."
	msgBooksCreated     = "Books created successfully."
	msgBooksPurged      = "All books deleted successfully"
	msgCreateFailed     = "Failed to create book."
	msgListFailed       = "Failed to retrieve books."
	msgRetrieveFailed   = "Failed to retrieve book."
	msgUpdateFailed     = "Failed to update book."
	msgDeleteFailed     = "Failed to delete book."
	msgSearchFailed     = "Failed to search books."
	msgBulkFailed       = "Failed to create books"
	msgPurgeFailed      = "Failed to purge books"
	msgDownloadFailed   = "Download failed"
	msgDuplicateEntry   = "Duplicate book entry"
	errBookNotFound     = "Book not found."
	errUnsupportedFmt   = "Unsupported format"
	errPurgeProduction  = "Bulk deletion is disabled in production"
	errDuplicateBook    = "A book with this title and author already exists."
	errValueTooLong     = "A value is longer than the database allows."
	errNothingPersisted = "No books were created."
)

func writeError(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, MessageResponse{
		Success: false,
		Message: message,
		Error:   detail,
	})
}

// writeServerError logs err with the request logger before answering with
// a generic envelope.
func (h *BookHandler) writeServerError(c *gin.Context, status int, message string, err error) {
	_ = c.Error(err)
	logging.FromContext(c, h.logger).Error(message, zap.Error(err))
	writeError(c, status, message, "")
}

func writeDuplicate(c *gin.Context) {
	errs := validation.Errors{}
	errs.Add("title", errDuplicateBook)

	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, validation.ErrorResponse{
		Success:     false,
		Message:     msgDuplicateEntry,
		Errors:      errs,
		IsDuplicate: true,
	})
}
