package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
	auditService "github.com/allisson/docgate/internal/audit/service"
	apperrors "github.com/allisson/docgate/internal/errors"
)

// auditUseCase implements AuditUseCase. When a signing key is configured each
// entry is signed before persistence so later tampering is detectable.
type auditUseCase struct {
	auditEntryRepo AuditEntryRepository
	signer         auditService.EntrySigner
	signingKey     []byte
}

// LogAction records an audit entry for a security-relevant action. Generates a
// UUIDv7 identifier and a UTC timestamp. The metadata parameter is optional and
// can be nil. Entries are signed only when a signing key was configured.
func (a *auditUseCase) LogAction(
	ctx context.Context,
	actorID uuid.UUID,
	action string,
	objectKind string,
	objectID string,
	metadata map[string]any,
) error {
	entry := &auditDomain.AuditEntry{
		ID:         uuid.Must(uuid.NewV7()),
		ActorID:    actorID,
		Action:     action,
		ObjectKind: objectKind,
		ObjectID:   objectID,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}

	if len(a.signingKey) > 0 {
		signature, err := a.signer.Sign(a.signingKey, entry)
		if err != nil {
			return apperrors.Wrap(err, "failed to sign audit entry")
		}
		entry.Signature = signature
	}

	if err := a.auditEntryRepo.Create(ctx, entry); err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// List retrieves audit entries ordered by created_at descending (newest first)
// with pagination and optional time-based filtering. Both boundaries are
// inclusive. All timestamps are expected in UTC.
func (a *auditUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEntry, error) {
	entries, err := a.auditEntryRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}

	return entries, nil
}

// NewAuditUseCase creates a new AuditUseCase with the provided dependencies.
// An empty signing key disables entry signing.
func NewAuditUseCase(
	auditEntryRepo AuditEntryRepository,
	signer auditService.EntrySigner,
	signingKey []byte,
) AuditUseCase {
	return &auditUseCase{
		auditEntryRepo: auditEntryRepo,
		signer:         signer,
		signingKey:     signingKey,
	}
}
