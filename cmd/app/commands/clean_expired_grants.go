package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/allisson/docgate/internal/app"
	"github.com/allisson/docgate/internal/config"
	grantUsecase "github.com/allisson/docgate/internal/grant/usecase"
)

// RunCleanExpiredGrants bulk-removes grants that expired more than the given
// number of days ago. Lazy eviction keeps reads correct on its own; this is
// housekeeping for the durable backends. Supports dry-run mode to preview the
// deletion count and both text/JSON output formats.
func RunCleanExpiredGrants(ctx context.Context, days int, dryRun bool, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get grant use case from container
	grantUseCase, err := container.GrantUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize grant use case: %w", err)
	}

	return cleanExpiredGrants(ctx, grantUseCase, logger, os.Stdout, days, dryRun, format)
}

// cleanExpiredGrants performs the cleanup with injected dependencies.
func cleanExpiredGrants(
	ctx context.Context,
	grantUseCase grantUsecase.GrantUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired grants",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	olderThan := time.Duration(days) * 24 * time.Hour

	count, err := grantUseCase.CleanExpired(ctx, olderThan, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired grants: %w", err)
	}

	if format == "json" {
		if err := outputCleanExpiredJSON(out, count, days, dryRun); err != nil {
			return err
		}
	} else {
		outputCleanExpiredText(out, count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(out io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired grant(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired grant(s) older than %d day(s)\n", count, days)
	}
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(out io.Writer, count int64, days int, dryRun bool) error {
	result := map[string]any{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
