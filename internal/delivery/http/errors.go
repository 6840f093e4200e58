package http_delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-feed-service/internal/custom_errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps service errors onto HTTP statuses. Validation failures
// name the offending form field. Unknown errors are reported as a plain 500
// without leaking their text.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, custom_errors.ErrUserNotFound),
		errors.Is(err, custom_errors.ErrGroupNotFound),
		errors.Is(err, custom_errors.ErrPostNotFound),
		errors.Is(err, custom_errors.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, custom_errors.ErrPostValidation),
		errors.Is(err, custom_errors.ErrCommentValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "text"})

	case errors.Is(err, custom_errors.ErrInvalidImageFormat):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "image"})

	case errors.Is(err, custom_errors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, custom_errors.ErrUnauthenticated):
		c.Redirect(http.StatusFound, "/auth/login?next="+c.Request.URL.Path)

	case errors.Is(err, custom_errors.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
