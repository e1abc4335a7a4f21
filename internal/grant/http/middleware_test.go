package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupMiddlewareRouter(middleware gin.HandlerFunc, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware)
	router.GET("/protected", handler)
	return router
}

func TestAdminAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Success_ValidAdminToken", func(t *testing.T) {
		router := setupMiddlewareRouter(
			AdminAuthMiddleware("admin-secret", logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-Admin-Token", "admin-secret")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_WrongAdminToken", func(t *testing.T) {
		router := setupMiddlewareRouter(
			AdminAuthMiddleware("admin-secret", logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-Admin-Token", "wrong")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MissingAdminToken", func(t *testing.T) {
		router := setupMiddlewareRouter(
			AdminAuthMiddleware("admin-secret", logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_NoTokenConfigured", func(t *testing.T) {
		router := setupMiddlewareRouter(
			AdminAuthMiddleware("", logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("X-Admin-Token", "")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
