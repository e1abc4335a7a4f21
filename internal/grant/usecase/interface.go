// Package usecase defines business logic interfaces for capability-grant operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

// GrantRepository defines persistence operations for capability grants.
// Implementations must serialize mutations on the same grant so that a
// concurrent revoke and an expiry eviction of one grant always converge to
// "absent", and must keep ListBySubject in grant creation order.
type GrantRepository interface {
	// Create stores a new grant in the repository.
	Create(ctx context.Context, grant *grantDomain.Grant) error

	// Get retrieves a grant by ID. Returns ErrGrantNotFound if not found.
	Get(ctx context.Context, grantID uuid.UUID) (*grantDomain.Grant, error)

	// GetByTokenHash retrieves a grant by the hash of its bearer secret.
	// Returns ErrGrantNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*grantDomain.Grant, error)

	// Delete removes a grant if present and reports whether it was present.
	// Deleting an absent grant is not an error.
	Delete(ctx context.Context, grantID uuid.UUID) (bool, error)

	// ListBySubject returns all grants issued by the subject user in creation order,
	// including expired ones (expiry filtering is the use case's concern).
	ListBySubject(ctx context.Context, subjectUserID uuid.UUID) ([]*grantDomain.Grant, error)

	// CountExpired counts grants whose expiry is at or before the given instant.
	CountExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpired removes grants whose expiry is at or before the given instant
	// and returns the number removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AuditSink receives audit events emitted by grant lifecycle operations.
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

// GrantUseCase defines the capability-grant registry operations.
//
// Validate is the single acceptance gate for any privileged mobile action:
// callers must still check the returned grant's permissions against the action
// they intend to perform.
type GrantUseCase interface {
	// Issue mints a new grant. ExpiresAt must be strictly in the future and
	// Permissions non-empty; the optional target must match Kind. The returned
	// output carries the one-time plain bearer secret and the mobile URL string
	// handed to the external encoder.
	Issue(ctx context.Context, input *grantDomain.IssueGrantInput) (*grantDomain.IssueGrantOutput, error)

	// Validate resolves a plain bearer secret to its live grant. An unknown
	// token yields ErrGrantNotFound; an expired grant is evicted from storage by
	// this call and yields ErrGrantExpired. Never blocks on I/O beyond the
	// backing store lookup.
	Validate(ctx context.Context, plainToken string) (*grantDomain.Grant, error)

	// Revoke removes the grant if present; reports whether it was present.
	// Idempotent: revoking twice is not an error, the second call reports false.
	Revoke(ctx context.Context, grantID uuid.UUID) (bool, error)

	// Enumerate returns the subject's non-expired grants in creation order and
	// evicts any expired grants encountered during the scan.
	Enumerate(ctx context.Context, subjectUserID uuid.UUID) ([]*grantDomain.Grant, error)

	// CleanExpired bulk-removes grants that expired more than olderThan ago.
	// With dryRun it only counts. Lazy eviction keeps the registry correct on
	// its own; this is housekeeping for the durable backends.
	CleanExpired(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}
