package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/logging"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

// AuthMiddleware requires a bearer token that the authenticator accepts and
// stores the resolved user id on the context.
func AuthMiddleware(a Authenticator, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token := strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
		if !strings.HasPrefix(header, common.BearerPrefix) || token == "" {
			fail(c, http.StatusUnauthorized, "authorization required")
			return
		}

		userID, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				fail(c, http.StatusUnauthorized, common.ErrTokenExpired.Error())
			case errors.Is(err, common.ErrTokenRevoked):
				fail(c, http.StatusUnauthorized, common.ErrTokenRevoked.Error())
			case errors.Is(err, common.ErrInvalidToken):
				fail(c, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			default:
				writeError(c, log, err)
			}
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by AuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	v, ok := id.(int64)
	return v, ok
}

// RequestLogger logs one line per request.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id, ok := UserID(c); ok {
			args = append(args, "user_id", id)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn(c.Request.Context(), "request", args...)
			return
		}
		log.Info(c.Request.Context(), "request", args...)
	}
}
