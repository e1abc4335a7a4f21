// Package usecase implements business logic orchestration for mobile file ingestion.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/docgate/internal/errors"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// uploadUseCase implements UploadUseCase backed by an UploadRepository.
type uploadUseCase struct {
	uploadRepo  UploadRepository
	blobService BlobService
	logger      *slog.Logger
}

// Record appends a ledger entry for a stored file.
func (u *uploadUseCase) Record(
	ctx context.Context,
	fileName, storageRef string,
	sizeBytes int64,
	mediaType string,
) (*ingestionDomain.Upload, error) {
	if fileName == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "file name must be set")
	}
	if storageRef == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "storage ref must be set")
	}

	upload := &ingestionDomain.Upload{
		ID:         uuid.Must(uuid.NewV7()),
		FileName:   fileName,
		StorageRef: storageRef,
		SizeBytes:  sizeBytes,
		MediaType:  mediaType,
		UploadedAt: time.Now().UTC(),
	}

	if err := u.uploadRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	return upload, nil
}

// List returns ledger entries newest-first.
func (u *uploadUseCase) List(ctx context.Context, offset, limit int) ([]*ingestionDomain.Upload, error) {
	return u.uploadRepo.List(ctx, offset, limit)
}

// Get retrieves a ledger entry by ID.
func (u *uploadUseCase) Get(ctx context.Context, uploadID uuid.UUID) (*ingestionDomain.Upload, error) {
	return u.uploadRepo.Get(ctx, uploadID)
}

// Delete removes a ledger entry and passes the delete through to the blob
// store. A blob store failure is logged but does not keep the ledger entry
// alive: the ledger is the source of truth and orphaned objects are cheaper
// than phantom records.
func (u *uploadUseCase) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	upload, err := u.uploadRepo.Get(ctx, uploadID)
	if err != nil {
		if apperrors.Is(err, ingestionDomain.ErrUploadNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := u.blobService.Delete(ctx, upload.StorageRef); err != nil {
		u.logger.Warn("failed to delete stored object",
			slog.String("upload_id", uploadID.String()),
			slog.String("storage_ref", upload.StorageRef),
			slog.Any("error", err),
		)
	}

	return u.uploadRepo.Delete(ctx, uploadID)
}

// NewUploadUseCase creates a new UploadUseCase with the provided dependencies.
func NewUploadUseCase(
	uploadRepo UploadRepository,
	blobService BlobService,
	logger *slog.Logger,
) UploadUseCase {
	return &uploadUseCase{
		uploadRepo:  uploadRepo,
		blobService: blobService,
		logger:      logger,
	}
}
