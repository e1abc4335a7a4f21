package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
	"github.com/allisson/docgate/internal/metrics"
)

// ingestionUseCaseWithMetrics decorates IngestionUseCase with metrics instrumentation.
type ingestionUseCaseWithMetrics struct {
	next    IngestionUseCase
	metrics metrics.BusinessMetrics
}

// NewIngestionUseCaseWithMetrics wraps an IngestionUseCase with metrics recording.
func NewIngestionUseCaseWithMetrics(useCase IngestionUseCase, m metrics.BusinessMetrics) IngestionUseCase {
	return &ingestionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Submit records metrics for file submission operations.
func (i *ingestionUseCaseWithMetrics) Submit(
	ctx context.Context,
	plainToken string,
	requiredPermission grantDomain.Permission,
	files []*ingestionDomain.FileSubmission,
) ([]*ingestionDomain.Upload, error) {
	start := time.Now()
	uploads, err := i.next.Submit(ctx, plainToken, requiredPermission, files)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "ingestion", "ingestion_submit", status)
	i.metrics.RecordDuration(ctx, "ingestion", "ingestion_submit", time.Since(start), status)

	return uploads, err
}

// uploadUseCaseWithMetrics decorates UploadUseCase with metrics instrumentation.
type uploadUseCaseWithMetrics struct {
	next    UploadUseCase
	metrics metrics.BusinessMetrics
}

// NewUploadUseCaseWithMetrics wraps an UploadUseCase with metrics recording.
func NewUploadUseCaseWithMetrics(useCase UploadUseCase, m metrics.BusinessMetrics) UploadUseCase {
	return &uploadUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for ledger insert operations.
func (u *uploadUseCaseWithMetrics) Record(
	ctx context.Context,
	fileName, storageRef string,
	sizeBytes int64,
	mediaType string,
) (*ingestionDomain.Upload, error) {
	start := time.Now()
	upload, err := u.next.Record(ctx, fileName, storageRef, sizeBytes, mediaType)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "ingestion", "upload_record", status)
	u.metrics.RecordDuration(ctx, "ingestion", "upload_record", time.Since(start), status)

	return upload, err
}

// List records metrics for ledger listing operations.
func (u *uploadUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*ingestionDomain.Upload, error) {
	start := time.Now()
	uploads, err := u.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "ingestion", "upload_list", status)
	u.metrics.RecordDuration(ctx, "ingestion", "upload_list", time.Since(start), status)

	return uploads, err
}

// Get records metrics for ledger lookup operations.
func (u *uploadUseCaseWithMetrics) Get(
	ctx context.Context,
	uploadID uuid.UUID,
) (*ingestionDomain.Upload, error) {
	start := time.Now()
	upload, err := u.next.Get(ctx, uploadID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "ingestion", "upload_get", status)
	u.metrics.RecordDuration(ctx, "ingestion", "upload_get", time.Since(start), status)

	return upload, err
}

// Delete records metrics for ledger delete operations.
func (u *uploadUseCaseWithMetrics) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	start := time.Now()
	removed, err := u.next.Delete(ctx, uploadID)

	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "ingestion", "upload_delete", status)
	u.metrics.RecordDuration(ctx, "ingestion", "upload_delete", time.Since(start), status)

	return removed, err
}
