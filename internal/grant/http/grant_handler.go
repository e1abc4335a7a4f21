package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/docgate/internal/grant/http/dto"
	grantUseCase "github.com/allisson/docgate/internal/grant/usecase"
	"github.com/allisson/docgate/internal/httputil"
	customValidation "github.com/allisson/docgate/internal/validation"
)

// GrantHandler handles HTTP requests for grant administration.
type GrantHandler struct {
	grantUseCase grantUseCase.GrantUseCase
	logger       *slog.Logger
}

// NewGrantHandler creates a new grant handler with required dependencies.
func NewGrantHandler(useCase grantUseCase.GrantUseCase, logger *slog.Logger) *GrantHandler {
	return &GrantHandler{
		grantUseCase: useCase,
		logger:       logger,
	}
}

// IssueHandler mints a new capability grant.
// POST /v1/grants - Requires the X-Admin-Token header.
// Returns 201 Created with the one-time token and the mobile URL.
func (h *GrantHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueGrantRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.grantUseCase.Issue(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.IssueGrantResponse{
		ID:        output.Grant.ID.String(),
		Token:     output.PlainToken,
		MobileURL: output.MobileURL,
		ExpiresAt: output.Grant.ExpiresAt,
	}

	c.JSON(http.StatusCreated, response)
}

// ListHandler enumerates a subject's live grants.
// GET /v1/grants?subject_user_id=<uuid> - Requires the X-Admin-Token header.
// Returns 200 OK with the grants in creation order; expired grants are evicted
// by the enumeration itself.
func (h *GrantHandler) ListHandler(c *gin.Context) {
	subjectUserID, err := uuid.Parse(c.Query("subject_user_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid subject_user_id format: must be a valid UUID"),
			h.logger)
		return
	}

	grants, err := h.grantUseCase.Enumerate(c.Request.Context(), subjectUserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGrantsToListResponse(grants))
}

// RevokeHandler removes a grant by its administrative ID.
// DELETE /v1/grants/:grant_id - Requires the X-Admin-Token header.
// Returns 200 OK with a revoked flag; revoking an absent grant is not an error.
func (h *GrantHandler) RevokeHandler(c *gin.Context) {
	grantID, err := uuid.Parse(c.Param("grant_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid grant ID format: must be a valid UUID"),
			h.logger)
		return
	}

	removed, err := h.grantUseCase.Revoke(c.Request.Context(), grantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": removed})
}
