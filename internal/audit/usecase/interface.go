// Package usecase implements business logic orchestration for the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

// AuditEntryRepository defines the interface for audit entry persistence.
type AuditEntryRepository interface {
	// Create inserts a new audit entry.
	Create(ctx context.Context, entry *auditDomain.AuditEntry) error

	// List retrieves audit entries ordered by created_at descending (newest
	// first) with pagination and optional inclusive time filters (nil means
	// no filter). Returns an empty slice if no entries match.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditEntry, error)
}

// AuditUseCase records and lists audit entries. Its LogAction method is the
// sink the grant and ingestion use cases emit into.
type AuditUseCase interface {
	// LogAction stamps, optionally signs, and persists an audit entry.
	LogAction(
		ctx context.Context,
		actorID uuid.UUID,
		action string,
		objectKind string,
		objectID string,
		metadata map[string]any,
	) error

	// List retrieves audit entries newest-first with pagination and optional
	// inclusive time filters.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditEntry, error)
}
