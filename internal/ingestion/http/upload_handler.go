package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	"github.com/allisson/docgate/internal/httputil"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
	"github.com/allisson/docgate/internal/ingestion/http/dto"
	ingestionUseCase "github.com/allisson/docgate/internal/ingestion/usecase"
)

// multipartFileField is the form field carrying the submitted files.
const multipartFileField = "files"

// UploadHandler handles HTTP requests for the mobile submission surface and
// the administrative upload ledger.
type UploadHandler struct {
	ingestionUseCase ingestionUseCase.IngestionUseCase
	uploadUseCase    ingestionUseCase.UploadUseCase
	logger           *slog.Logger
}

// NewUploadHandler creates a new upload handler with required dependencies.
func NewUploadHandler(
	ingestion ingestionUseCase.IngestionUseCase,
	uploads ingestionUseCase.UploadUseCase,
	logger *slog.Logger,
) *UploadHandler {
	return &UploadHandler{
		ingestionUseCase: ingestion,
		uploadUseCase:    uploads,
		logger:           logger,
	}
}

// SubmitHandler accepts a multipart batch of files from a mobile client.
// POST /v1/mobile/uploads - Requires `Authorization: Bearer <capability token>`.
// Returns 201 Created with the ledger records. On a storage failure partway
// through the batch it returns 502 Bad Gateway together with the records that
// were already committed, so the client does not resubmit those files.
func (h *UploadHandler) SubmitHandler(c *gin.Context) {
	plainToken, err := bearerToken(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	files, err := h.readMultipartFiles(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	uploads, err := h.ingestionUseCase.Submit(
		c.Request.Context(),
		plainToken,
		grantDomain.DocumentCreatePermission,
		files,
	)
	if err != nil {
		if len(uploads) > 0 && apperrors.Is(err, apperrors.ErrUnavailable) {
			h.logger.Error("partial submission failure",
				slog.Int("committed", len(uploads)),
				slog.Any("error", err),
			)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "store_unavailable",
				"message": "The file store failed partway through the batch",
				"uploads": dto.MapUploadsToSubmitResponse(uploads).Uploads,
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUploadsToSubmitResponse(uploads))
}

// ListHandler lists ledger entries newest-first with pagination.
// GET /v1/uploads?offset=0&limit=50 - Requires the X-Admin-Token header.
func (h *UploadHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	uploads, err := h.uploadUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUploadsToListResponse(uploads, offset, limit))
}

// GetHandler fetches a single ledger entry by ID.
// GET /v1/uploads/:upload_id - Requires the X-Admin-Token header.
func (h *UploadHandler) GetHandler(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("upload_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid upload ID format: must be a valid UUID"),
			h.logger)
		return
	}

	upload, err := h.uploadUseCase.Get(c.Request.Context(), uploadID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUploadToResponse(upload))
}

// DeleteHandler removes a ledger entry and its blob object.
// DELETE /v1/uploads/:upload_id - Requires the X-Admin-Token header.
// Returns 200 OK with a deleted flag; deleting an absent entry is not an error.
func (h *UploadHandler) DeleteHandler(c *gin.Context) {
	uploadID, err := uuid.Parse(c.Param("upload_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid upload ID format: must be a valid UUID"),
			h.logger)
		return
	}

	removed, err := h.uploadUseCase.Delete(c.Request.Context(), uploadID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// bearerToken extracts the capability token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "missing Authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", apperrors.Wrap(apperrors.ErrUnauthorized, "malformed Authorization header")
	}

	return token, nil
}

// readMultipartFiles reads every part of the "files" form field into memory.
// The per-file size policy is enforced by the use case, not here.
func (h *UploadHandler) readMultipartFiles(c *gin.Context) ([]*ingestionDomain.FileSubmission, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	fileHeaders := form.File[multipartFileField]
	if len(fileHeaders) == 0 {
		return nil, fmt.Errorf("multipart form must carry at least one %q part", multipartFileField)
	}

	files := make([]*ingestionDomain.FileSubmission, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		part, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %q: %w", fileHeader.Filename, err)
		}

		data, err := io.ReadAll(part)
		closeErr := part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", fileHeader.Filename, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close file %q: %w", fileHeader.Filename, closeErr)
		}

		files = append(files, &ingestionDomain.FileSubmission{
			FileName:  fileHeader.Filename,
			MediaType: fileHeader.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	return files, nil
}
