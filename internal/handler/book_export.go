package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/export"
	"github.com/snnyvrz/book-catalog/internal/logging"
	"github.com/snnyvrz/book-catalog/internal/validation"
	"go.uber.org/zap"
)

// DownloadBooks godoc
// @Summary      Export books
// @Description  Streams every book as a CSV or XML attachment with the requested fields.
// @Tags         books
// @Accept       json
// @Produce      text/csv
// @Produce      application/xml
// @Produce      json
// @Param        format   path      string              true  "Export format"  Enums(csv,xml)
// @Param        payload  body      ExportBooksRequest  true  "Fields to export"
// @Success      200      {file}    file
// @Failure      422      {object}  validation.ErrorResponse  "Validation error"
// @Failure      500      {object}  MessageResponse           "Unsupported format or store failure"
// @Router       /books/download/{format} [post]
func (h *BookHandler) DownloadBooks(c *gin.Context) {
	var req ExportBooksRequest
	if !validation.BindAndValidateJSON(c, &req, nil) {
		return
	}

	formatter, err := export.New(c.Param("format"))
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			_ = c.Error(err)
			writeError(c, http.StatusInternalServerError, msgDownloadFailed, errUnsupportedFmt)
			return
		}
		h.writeServerError(c, http.StatusInternalServerError, msgDownloadFailed, err)
		return
	}

	books, err := h.store.Export(c.Request.Context(), req.Fields)
	if err != nil {
		h.writeServerError(c, http.StatusInternalServerError, msgDownloadFailed, err)
		return
	}

	filename := export.Filename(formatter, h.now())

	c.Header("Content-Type", formatter.ContentType())
	c.Header("Content-Disposition", export.ContentDisposition(filename))
	c.Status(http.StatusOK)

	// Headers are already sent, so a failure here can only be logged.
	if err := formatter.Write(c.Writer, req.Fields, books); err != nil {
		_ = c.Error(err)
		logging.FromContext(c, h.logger).Error("export stream failed",
			zap.String("format", formatter.Format()),
			zap.Error(err),
		)
		return
	}

	h.metrics.Exported(formatter.Format())
}
