// Package http provides the API server, router setup, and request middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/docgate/internal/audit/http"
	"github.com/allisson/docgate/internal/config"
	grantHTTP "github.com/allisson/docgate/internal/grant/http"
	ingestionHTTP "github.com/allisson/docgate/internal/ingestion/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new API server. The db handle may be nil when the
// memory storage driver is in use.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterConfig carries the handlers and options the router wires together.
type RouterConfig struct {
	Config            *config.Config
	GrantHandler      *grantHTTP.GrantHandler
	UploadHandler     *ingestionHTTP.UploadHandler
	AuditHandler      *auditHTTP.AuditHandler
	MetricsMiddleware gin.HandlerFunc
}

// SetupRouter builds the gin router: base middleware, health endpoints, the
// admin surface behind the static admin token, and the mobile surface behind
// IP rate limiting.
func (s *Server) SetupRouter(rc RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		rc.Config.CORSEnabled,
		rc.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if rc.MetricsMiddleware != nil {
		router.Use(rc.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Administrative surface, protected by the static admin credential.
	admin := v1.Group("")
	admin.Use(grantHTTP.AdminAuthMiddleware(rc.Config.AdminToken, s.logger))
	{
		admin.POST("/grants", rc.GrantHandler.IssueHandler)
		admin.GET("/grants", rc.GrantHandler.ListHandler)
		admin.DELETE("/grants/:grant_id", rc.GrantHandler.RevokeHandler)

		admin.GET("/uploads", rc.UploadHandler.ListHandler)
		admin.GET("/uploads/:upload_id", rc.UploadHandler.GetHandler)
		admin.DELETE("/uploads/:upload_id", rc.UploadHandler.DeleteHandler)

		admin.GET("/audit-entries", rc.AuditHandler.ListHandler)
	}

	// Mobile surface. The bearer capability token is the only credential, so
	// the endpoint is IP rate limited against token guessing.
	mobile := v1.Group("/mobile")
	if rc.Config.RateLimitMobileEnabled {
		mobile.Use(IPRateLimitMiddleware(
			rc.Config.RateLimitMobileRequestsPerSec,
			rc.Config.RateLimitMobileBurst,
			s.logger,
		))
	}
	mobile.POST("/uploads", rc.UploadHandler.SubmitHandler)

	s.router = router
}

// GetHandler returns the configured router for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the API HTTP server. SetupRouter must have been called.
func (s *Server) Start(_ context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness to serve traffic. With the memory driver
// there is no database handle and the service is ready by construction; with a
// SQL driver the database must answer a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db == nil {
		components["database"] = "not_configured"
		c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	components["database"] = "ok"
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
