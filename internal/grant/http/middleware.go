package http

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/docgate/internal/errors"
	"github.com/allisson/docgate/internal/httputil"
)

// AdminAuthMiddleware protects the administrative endpoints with a static
// token carried in the X-Admin-Token header. An empty configured token
// disables the endpoints entirely.
func AdminAuthMiddleware(adminToken string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			logger.Warn("admin endpoints disabled: no admin token configured")
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		header := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) != 1 {
			logger.Debug("admin authentication failed")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
