// Package http provides the administrative audit trail inspection surface.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/docgate/internal/audit/http/dto"
	auditUseCase "github.com/allisson/docgate/internal/audit/usecase"
	"github.com/allisson/docgate/internal/httputil"
)

// AuditHandler handles HTTP requests for audit trail inspection.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(useCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// ListHandler lists audit entries newest-first with pagination and optional
// RFC 3339 time filters.
// GET /v1/audit-entries?offset=0&limit=50&created_at_from=...&created_at_to=...
// Requires the X-Admin-Token header.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	createdAtFrom, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	createdAtTo, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.List(c.Request.Context(), offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToListResponse(entries, offset, limit))
}

// parseTimeQuery parses an optional RFC 3339 query parameter. Returns nil when
// the parameter is absent.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be an RFC 3339 timestamp", name)
	}

	return &parsed, nil
}
