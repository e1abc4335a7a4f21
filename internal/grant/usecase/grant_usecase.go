// Package usecase implements business logic orchestration for capability grants.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/docgate/internal/config"
	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	grantService "github.com/allisson/docgate/internal/grant/service"
)

// grantUseCase implements GrantUseCase backed by a GrantRepository.
type grantUseCase struct {
	config       *config.Config
	grantRepo    GrantRepository
	tokenService grantService.TokenService
	auditSink    AuditSink
	logger       *slog.Logger
}

// Issue mints a new capability grant.
//
// This method:
// 1. Validates expiry, permissions, and kind/target consistency
// 2. Generates the bearer secret and stores only its hash
// 3. Persists the grant
// 4. Emits a grant_issued audit event (non-fatal on failure)
// 5. Returns the grant, the one-time plain secret, and the mobile URL
//
// Security Notes:
//   - The plain bearer secret is only returned once; the registry keeps the
//     SHA-256 hash, so a storage dump does not leak usable credentials
//   - All timestamps are UTC
func (g *grantUseCase) Issue(
	ctx context.Context,
	input *grantDomain.IssueGrantInput,
) (*grantDomain.IssueGrantOutput, error) {
	now := time.Now().UTC()

	if !input.Kind.Valid() {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown grant kind %q", input.Kind)
	}
	if input.SubjectUserID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "subject user id must be set")
	}
	if !input.ExpiresAt.After(now) {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "expires_at must be strictly in the future")
	}
	if len(input.Permissions) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "permissions must not be empty")
	}
	if err := validateTarget(input); err != nil {
		return nil, err
	}

	// Generate the bearer secret
	plainToken, tokenHash, err := g.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	grant := &grantDomain.Grant{
		ID:            uuid.Must(uuid.NewV7()),
		TokenHash:     tokenHash,
		Kind:          input.Kind,
		SubjectUserID: input.SubjectUserID,
		Permissions:   append([]grantDomain.Permission(nil), input.Permissions...),
		DocumentID:    input.DocumentID,
		FolderID:      input.FolderID,
		WorkflowID:    input.WorkflowID,
		UploadURL:     input.UploadURL,
		ExpiresAt:     input.ExpiresAt.UTC(),
		CreatedAt:     now,
	}

	if err := g.grantRepo.Create(ctx, grant); err != nil {
		return nil, err
	}

	g.emitAudit(ctx, grant.SubjectUserID, "grant_issued", grant.ID, map[string]any{
		"kind":       string(grant.Kind),
		"expires_at": grant.ExpiresAt,
	})

	return &grantDomain.IssueGrantOutput{
		Grant:      grant,
		PlainToken: plainToken,
		MobileURL:  fmt.Sprintf("%s/m/%s", g.config.MobileBaseURL, plainToken),
	}, nil
}

// Validate resolves a bearer secret to its grant, lazily evicting an expired one.
//
// The eviction happens inline with the read that would otherwise have exposed
// the stale grant, so no caller ever observes an expired grant as live. A
// revoke racing with this eviction is safe: both paths end with the grant
// absent, whichever deletion wins.
func (g *grantUseCase) Validate(ctx context.Context, plainToken string) (*grantDomain.Grant, error) {
	tokenHash := g.tokenService.HashToken(plainToken)

	grant, err := g.grantRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if grant.IsExpired(time.Now().UTC()) {
		if _, err := g.grantRepo.Delete(ctx, grant.ID); err != nil {
			g.logger.Warn("failed to evict expired grant",
				slog.String("grant_id", grant.ID.String()),
				slog.Any("error", err),
			)
		}
		return nil, grantDomain.ErrGrantExpired
	}

	return grant, nil
}

// Revoke removes a grant by its administrative ID. Idempotent.
func (g *grantUseCase) Revoke(ctx context.Context, grantID uuid.UUID) (bool, error) {
	grant, err := g.grantRepo.Get(ctx, grantID)
	if err != nil {
		if apperrors.Is(err, grantDomain.ErrGrantNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := g.grantRepo.Delete(ctx, grantID)
	if err != nil {
		return false, err
	}

	if removed {
		g.emitAudit(ctx, grant.SubjectUserID, "grant_revoked", grant.ID, map[string]any{
			"kind": string(grant.Kind),
		})
	}

	return removed, nil
}

// Enumerate lists the subject's live grants, evicting expired ones on the way.
// Repeated enumeration is therefore self-cleaning.
func (g *grantUseCase) Enumerate(
	ctx context.Context,
	subjectUserID uuid.UUID,
) ([]*grantDomain.Grant, error) {
	grants, err := g.grantRepo.ListBySubject(ctx, subjectUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	live := make([]*grantDomain.Grant, 0, len(grants))
	for _, grant := range grants {
		if grant.IsExpired(now) {
			if _, err := g.grantRepo.Delete(ctx, grant.ID); err != nil {
				g.logger.Warn("failed to evict expired grant",
					slog.String("grant_id", grant.ID.String()),
					slog.Any("error", err),
				)
			}
			continue
		}
		live = append(live, grant)
	}

	return live, nil
}

// CleanExpired bulk-removes grants that expired more than olderThan ago.
func (g *grantUseCase) CleanExpired(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	before := time.Now().UTC().Add(-olderThan)

	if dryRun {
		return g.grantRepo.CountExpired(ctx, before)
	}

	return g.grantRepo.DeleteExpired(ctx, before)
}

// emitAudit forwards a grant lifecycle event to the audit sink. Sink failures
// are logged and never fail the operation that emitted them.
func (g *grantUseCase) emitAudit(
	ctx context.Context,
	actorID uuid.UUID,
	action string,
	grantID uuid.UUID,
	metadata map[string]any,
) {
	if g.auditSink == nil {
		return
	}
	if err := g.auditSink.LogAction(ctx, actorID, action, "grant", grantID.String(), metadata); err != nil {
		g.logger.Warn("failed to emit audit event",
			slog.String("action", action),
			slog.String("grant_id", grantID.String()),
			slog.Any("error", err),
		)
	}
}

// validateTarget enforces "at most one target, matching the kind".
func validateTarget(input *grantDomain.IssueGrantInput) error {
	targets := 0
	for _, id := range []*uuid.UUID{input.DocumentID, input.FolderID, input.WorkflowID} {
		if id != nil {
			targets++
		}
	}
	if targets > 1 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "at most one target reference may be set")
	}

	switch {
	case input.DocumentID != nil && input.Kind != grantDomain.DocumentUploadKind:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "document target requires document_upload kind")
	case input.FolderID != nil && input.Kind != grantDomain.FolderAccessKind:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "folder target requires folder_access kind")
	case input.WorkflowID != nil && input.Kind != grantDomain.WorkflowActionKind:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "workflow target requires workflow_action kind")
	}

	return nil
}

// NewGrantUseCase creates a new GrantUseCase with the provided dependencies.
// The audit sink may be nil when auditing is disabled.
func NewGrantUseCase(
	cfg *config.Config,
	grantRepo GrantRepository,
	tokenService grantService.TokenService,
	auditSink AuditSink,
	logger *slog.Logger,
) GrantUseCase {
	return &grantUseCase{
		config:       cfg,
		grantRepo:    grantRepo,
		tokenService: tokenService,
		auditSink:    auditSink,
		logger:       logger,
	}
}
