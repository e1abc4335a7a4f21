package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// ingestionUseCase implements IngestionUseCase.
type ingestionUseCase struct {
	grantValidator GrantValidator
	uploadUseCase  UploadUseCase
	blobService    BlobService
	auditSink      AuditSink
	logger         *slog.Logger
}

// Submit runs the mobile submission flow.
//
// This method:
// 1. Resolves the bearer token to a live grant; unknown and expired tokens
//    both collapse to ErrUnauthorized so responses never reveal whether a
//    token once existed
// 2. Checks the grant carries the required permission (ErrForbidden)
// 3. Validates the whole batch against the file policy before touching the
//    store; the first violation aborts the batch with no side effects
// 4. Commits files in submission order: blob write, ledger record, audit event
//
// A blob or ledger failure at file k returns the uploads committed for files
// 1..k-1 together with an error naming the failing file. Committed records are
// never rolled back; the ledger is append-only.
func (i *ingestionUseCase) Submit(
	ctx context.Context,
	plainToken string,
	requiredPermission grantDomain.Permission,
	files []*ingestionDomain.FileSubmission,
) ([]*ingestionDomain.Upload, error) {
	grant, err := i.grantValidator.Validate(ctx, plainToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) || apperrors.Is(err, apperrors.ErrExpired) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid capability token")
		}
		return nil, err
	}

	if !grant.HasPermission(requiredPermission) {
		return nil, apperrors.Wrapf(apperrors.ErrForbidden, "grant lacks permission %q", requiredPermission)
	}

	if len(files) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "submission batch must not be empty")
	}

	// Whole-batch policy check before any commit
	for _, file := range files {
		if err := ingestionDomain.ValidateFile(file.SizeBytes(), file.MediaType); err != nil {
			return nil, apperrors.Wrapf(err, "file %q", file.FileName)
		}
	}

	committed := make([]*ingestionDomain.Upload, 0, len(files))
	for _, file := range files {
		storageRef, err := i.blobService.Store(ctx, file.FileName, file.MediaType, file.Data)
		if err != nil {
			return committed, apperrors.Wrapf(err, "file %q", file.FileName)
		}

		upload, err := i.uploadUseCase.Record(ctx, file.FileName, storageRef, file.SizeBytes(), file.MediaType)
		if err != nil {
			return committed, apperrors.Wrapf(err, "file %q", file.FileName)
		}

		committed = append(committed, upload)

		i.emitAudit(ctx, grant, upload)
	}

	return committed, nil
}

// emitAudit forwards a file_uploaded event to the audit sink. Sink failures
// are logged and never fail the submission that emitted them.
func (i *ingestionUseCase) emitAudit(
	ctx context.Context,
	grant *grantDomain.Grant,
	upload *ingestionDomain.Upload,
) {
	if i.auditSink == nil {
		return
	}

	metadata := map[string]any{
		"file_name":  upload.FileName,
		"size_bytes": upload.SizeBytes,
		"media_type": upload.MediaType,
	}

	err := i.auditSink.LogAction(ctx, grant.SubjectUserID, "file_uploaded", "upload", upload.ID.String(), metadata)
	if err != nil {
		i.logger.Warn("failed to emit audit event",
			slog.String("action", "file_uploaded"),
			slog.String("upload_id", upload.ID.String()),
			slog.Any("error", err),
		)
	}
}

// NewIngestionUseCase creates a new IngestionUseCase with the provided dependencies.
// The audit sink may be nil when auditing is disabled.
func NewIngestionUseCase(
	grantValidator GrantValidator,
	uploadUseCase UploadUseCase,
	blobService BlobService,
	auditSink AuditSink,
	logger *slog.Logger,
) IngestionUseCase {
	return &ingestionUseCase{
		grantValidator: grantValidator,
		uploadUseCase:  uploadUseCase,
		blobService:    blobService,
		auditSink:      auditSink,
		logger:         logger,
	}
}
