package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/book-catalog/internal/validation"
)

// SearchBooks godoc
// @Summary      Search books
// @Description  Case-insensitive substring match on title or author
// @Tags         books
// @Produce      json
// @Param        q           query     string  true   "Search term"     minlength(1) maxlength(255)
// @Param        page        query     int     false  "Page number"     default(1) minimum(1)
// @Param        per_page    query     int     false  "Items per page"  default(5) minimum(1) maximum(100)
// @Param        sort_by     query     string  false  "Sort column"     Enums(title,author,created_at,updated_at) default(created_at)
// @Param        sort_order  query     string  false  "Sort direction"  Enums(asc,desc) default(desc)
// @Success      200  {object}  ListBooksResponse
// @Failure      422  {object}  validation.ErrorResponse  "Invalid query parameters"
// @Failure      500  {object}  MessageResponse           "Internal server error"
// @Router       /books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var q SearchBooksQuery
	if !validation.BindAndValidateQuery(c, &q) {
		return
	}

	params := q.params()

	result, err := h.store.Search(c.Request.Context(), params)
	if err != nil {
		h.writeServerError(c, http.StatusInternalServerError, msgSearchFailed, err)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(msgSearchRetrieved, result, params))
}
