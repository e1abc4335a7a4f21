package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	"github.com/allisson/docgate/internal/metrics"
)

// grantUseCaseWithMetrics decorates GrantUseCase with metrics instrumentation.
type grantUseCaseWithMetrics struct {
	next    GrantUseCase
	metrics metrics.BusinessMetrics
}

// NewGrantUseCaseWithMetrics wraps a GrantUseCase with metrics recording.
func NewGrantUseCaseWithMetrics(useCase GrantUseCase, m metrics.BusinessMetrics) GrantUseCase {
	return &grantUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for grant issuance operations.
func (g *grantUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *grantDomain.IssueGrantInput,
) (*grantDomain.IssueGrantOutput, error) {
	start := time.Now()
	output, err := g.next.Issue(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "grant", "grant_issue", status)
	g.metrics.RecordDuration(ctx, "grant", "grant_issue", time.Since(start), status)

	return output, err
}

// Validate records metrics for token validation operations.
func (g *grantUseCaseWithMetrics) Validate(
	ctx context.Context,
	plainToken string,
) (*grantDomain.Grant, error) {
	start := time.Now()
	grant, err := g.next.Validate(ctx, plainToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "grant", "grant_validate", status)
	g.metrics.RecordDuration(ctx, "grant", "grant_validate", time.Since(start), status)

	return grant, err
}

// Revoke records metrics for grant revocation operations.
func (g *grantUseCaseWithMetrics) Revoke(ctx context.Context, grantID uuid.UUID) (bool, error) {
	start := time.Now()
	removed, err := g.next.Revoke(ctx, grantID)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "grant", "grant_revoke", status)
	g.metrics.RecordDuration(ctx, "grant", "grant_revoke", time.Since(start), status)

	return removed, err
}

// Enumerate records metrics for grant enumeration operations.
func (g *grantUseCaseWithMetrics) Enumerate(
	ctx context.Context,
	subjectUserID uuid.UUID,
) ([]*grantDomain.Grant, error) {
	start := time.Now()
	grants, err := g.next.Enumerate(ctx, subjectUserID)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "grant", "grant_enumerate", status)
	g.metrics.RecordDuration(ctx, "grant", "grant_enumerate", time.Since(start), status)

	return grants, err
}

// CleanExpired records metrics for expired-grant housekeeping operations.
func (g *grantUseCaseWithMetrics) CleanExpired(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := g.next.CleanExpired(ctx, olderThan, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "grant", "grant_clean_expired", status)
	g.metrics.RecordDuration(ctx, "grant", "grant_clean_expired", time.Since(start), status)

	return count, err
}
