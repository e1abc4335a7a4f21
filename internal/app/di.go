// Package app provides the dependency injection container assembling application components.
package app

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	auditHTTP "github.com/allisson/docgate/internal/audit/http"
	auditUsecase "github.com/allisson/docgate/internal/audit/usecase"
	"github.com/allisson/docgate/internal/config"
	"github.com/allisson/docgate/internal/database"
	grantHTTP "github.com/allisson/docgate/internal/grant/http"
	grantUsecase "github.com/allisson/docgate/internal/grant/usecase"
	"github.com/allisson/docgate/internal/http"
	ingestionHTTP "github.com/allisson/docgate/internal/ingestion/http"
	ingestionUsecase "github.com/allisson/docgate/internal/ingestion/usecase"
	"github.com/allisson/docgate/internal/metrics"
	"github.com/allisson/docgate/internal/storage"
)

// memoryDriver is the default storage driver: everything in process memory,
// no database handle.
const memoryDriver = "memory"

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	blobService     storage.BlobService

	// Domain components (initialized in the di_* files)
	grantRepo        grantUsecase.GrantRepository
	grantUseCase     grantUsecase.GrantUseCase
	uploadRepo       ingestionUsecase.UploadRepository
	uploadUseCase    ingestionUsecase.UploadUseCase
	ingestionUseCase ingestionUsecase.IngestionUseCase
	auditRepo        auditUsecase.AuditEntryRepository
	auditUseCase     auditUsecase.AuditUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	blobServiceInit      sync.Once
	grantRepoInit        sync.Once
	grantUseCaseInit     sync.Once
	uploadRepoInit       sync.Once
	uploadUseCaseInit    sync.Once
	ingestionUseCaseInit sync.Once
	auditRepoInit        sync.Once
	auditUseCaseInit     sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection. With the memory driver there is no
// database; the handle is nil and callers must tolerate that.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		if c.config.DBDriver == memoryDriver {
			return
		}
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager. Only meaningful with a SQL driver.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		if db == nil {
			c.initErrors["txManager"] = fmt.Errorf("tx manager requires a SQL driver, have %q", c.config.DBDriver)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OTel meter provider with Prometheus exporter.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op recorder is returned so decorators stay wired.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to get metrics provider: %w", err)
			return
		}

		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// BlobService returns the blob store boundary, opened from the configured
// bucket URL.
func (c *Container) BlobService(ctx context.Context) (storage.BlobService, error) {
	c.blobServiceInit.Do(func() {
		blobService, err := storage.NewBlobService(ctx, c.config.BlobBucketURL)
		if err != nil {
			c.initErrors["blobService"] = fmt.Errorf("failed to open blob bucket: %w", err)
			return
		}
		c.blobService = blobService
	})
	if storedErr, exists := c.initErrors["blobService"]; exists {
		return nil, storedErr
	}
	return c.blobService, nil
}

// HTTPServer returns the API HTTP server with the full route table configured.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus exposition server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider: %w", err)
			return
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.blobService != nil {
		if err := c.blobService.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob service close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer builds the API server with the full route table.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	grantUC, err := c.GrantUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get grant use case: %w", err)
	}

	uploadUC, err := c.UploadUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get upload use case: %w", err)
	}

	ingestionUC, err := c.IngestionUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingestion use case: %w", err)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case: %w", err)
	}

	var metricsMiddleware gin.HandlerFunc
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider: %w", err)
		}
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	logger := c.Logger()
	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(http.RouterConfig{
		Config:            c.config,
		GrantHandler:      grantHTTP.NewGrantHandler(grantUC, logger),
		UploadHandler:     ingestionHTTP.NewUploadHandler(ingestionUC, uploadUC, logger),
		AuditHandler:      auditHTTP.NewAuditHandler(auditUC, logger),
		MetricsMiddleware: metricsMiddleware,
	})

	return server, nil
}

// auditSigningKey decodes the configured base64 signing key. Returns nil when
// signing is not configured.
func (c *Container) auditSigningKey() ([]byte, error) {
	if c.config.AuditSigningKey == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(c.config.AuditSigningKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audit signing key: %w", err)
	}
	return key, nil
}
