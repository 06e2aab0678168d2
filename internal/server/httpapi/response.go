package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/logging"
	"github.com/gin-gonic/gin"
)

type successBody struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

func success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successBody{Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: message})
}

// statusOf maps the common sentinels to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the error's message, except for internal errors
// whose details are logged and hidden.
func writeError(c *gin.Context, log logging.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		fail(c, status, common.ErrorInternal.Error())
		return
	}
	fail(c, status, err.Error())
}
