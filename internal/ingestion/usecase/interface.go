// Package usecase defines business logic interfaces for mobile file ingestion.
package usecase

import (
	"context"

	"github.com/google/uuid"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// UploadRepository defines persistence operations for the upload ledger.
// Implementations must serialize mutations on the same record and keep List
// in reverse chronological order (newest first).
type UploadRepository interface {
	// Create stores a new upload record.
	Create(ctx context.Context, upload *ingestionDomain.Upload) error

	// Get retrieves an upload record by ID. Returns ErrUploadNotFound if absent.
	Get(ctx context.Context, uploadID uuid.UUID) (*ingestionDomain.Upload, error)

	// List returns upload records newest-first with offset/limit pagination.
	List(ctx context.Context, offset, limit int) ([]*ingestionDomain.Upload, error)

	// Delete removes an upload record if present and reports whether it was present.
	Delete(ctx context.Context, uploadID uuid.UUID) (bool, error)
}

// BlobService is the ingestion-side view of the blob store boundary.
type BlobService interface {
	// Store writes file contents and returns the opaque storage ref.
	Store(ctx context.Context, fileName, contentType string, data []byte) (string, error)

	// Delete removes a stored object by its ref.
	Delete(ctx context.Context, storageRef string) error
}

// GrantValidator resolves a plain bearer token to a live grant.
// Satisfied by the grant use case.
type GrantValidator interface {
	Validate(ctx context.Context, plainToken string) (*grantDomain.Grant, error)
}

// AuditSink receives audit events emitted by ingestion operations.
// Delivery and durability are the sink's responsibility; emitters treat
// failures as non-fatal.
type AuditSink interface {
	LogAction(
		ctx context.Context,
		actorID uuid.UUID,
		action string,
		objectKind string,
		objectID string,
		metadata map[string]any,
	) error
}

// UploadUseCase manages the upload ledger.
type UploadUseCase interface {
	// Record appends a ledger entry for a stored file and returns it.
	Record(
		ctx context.Context,
		fileName, storageRef string,
		sizeBytes int64,
		mediaType string,
	) (*ingestionDomain.Upload, error)

	// List returns ledger entries newest-first with offset/limit pagination.
	List(ctx context.Context, offset, limit int) ([]*ingestionDomain.Upload, error)

	// Get retrieves a ledger entry by ID.
	Get(ctx context.Context, uploadID uuid.UUID) (*ingestionDomain.Upload, error)

	// Delete removes a ledger entry and its stored object; reports whether the
	// entry was present. Idempotent: deleting twice is not an error.
	Delete(ctx context.Context, uploadID uuid.UUID) (bool, error)
}

// IngestionUseCase orchestrates the end-to-end mobile submission flow.
type IngestionUseCase interface {
	// Submit validates the bearer token, checks the required permission,
	// validates the whole batch against the file policy, then commits files
	// one by one (blob write, ledger record, audit event).
	//
	// Unknown and expired tokens both surface as ErrUnauthorized. A policy
	// violation anywhere in the batch aborts it before any commit. A blob
	// store failure mid-batch returns the committed prefix together with an
	// error wrapping ErrUnavailable — callers must treat the submission as
	// partially succeeded.
	Submit(
		ctx context.Context,
		plainToken string,
		requiredPermission grantDomain.Permission,
		files []*ingestionDomain.FileSubmission,
	) ([]*ingestionDomain.Upload, error)
}
