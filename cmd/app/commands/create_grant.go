package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/docgate/internal/app"
	"github.com/allisson/docgate/internal/config"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	grantUsecase "github.com/allisson/docgate/internal/grant/usecase"
)

// CreateGrantParams holds the parsed command-line parameters for issuing a grant.
type CreateGrantParams struct {
	SubjectUserID string
	Kind          string
	Permissions   string
	DocumentID    string
	FolderID      string
	WorkflowID    string
	ExpiresIn     time.Duration
	Format        string
}

// RunCreateGrant issues a new capability grant and prints the one-time bearer
// secret together with the mobile link. The secret is shown exactly once and
// cannot be recovered afterwards.
func RunCreateGrant(ctx context.Context, params CreateGrantParams) error {
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

	if params.ExpiresIn <= 0 {
		params.ExpiresIn = cfg.GrantDefaultExpiration
	}

	return createGrant(ctx, grantUseCase, logger, os.Stdout, params)
}

// createGrant performs the grant issuance with injected dependencies.
func createGrant(
	ctx context.Context,
	grantUseCase grantUsecase.GrantUseCase,
	logger *slog.Logger,
	out io.Writer,
	params CreateGrantParams,
) error {
	subjectUserID, err := uuid.Parse(params.SubjectUserID)
	if err != nil {
		return fmt.Errorf("invalid subject user id: %w", err)
	}

	kind, err := parseKind(params.Kind)
	if err != nil {
		return err
	}

	permissions, err := parsePermissions(params.Permissions)
	if err != nil {
		return err
	}

	input := &grantDomain.IssueGrantInput{
		Kind:          kind,
		SubjectUserID: subjectUserID,
		ExpiresAt:     time.Now().UTC().Add(params.ExpiresIn),
		Permissions:   permissions,
	}

	if input.DocumentID, err = parseOptionalUUID(params.DocumentID, "document id"); err != nil {
		return err
	}
	if input.FolderID, err = parseOptionalUUID(params.FolderID, "folder id"); err != nil {
		return err
	}
	if input.WorkflowID, err = parseOptionalUUID(params.WorkflowID, "workflow id"); err != nil {
		return err
	}

	output, err := grantUseCase.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue grant: %w", err)
	}

	logger.Info("grant issued",
		slog.String("grant_id", output.Grant.ID.String()),
		slog.String("kind", string(output.Grant.Kind)),
		slog.Time("expires_at", output.Grant.ExpiresAt),
	)

	if params.Format == "json" {
		return outputCreateGrantJSON(out, output)
	}
	outputCreateGrantText(out, output)
	return nil
}

// parseOptionalUUID parses an optional UUID flag value, returning nil when empty.
func parseOptionalUUID(value, label string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", label, err)
	}
	return &parsed, nil
}

// outputCreateGrantText outputs the issued grant in human-readable text format.
func outputCreateGrantText(out io.Writer, output *grantDomain.IssueGrantOutput) {
	fmt.Fprintf(out, "Grant issued successfully\n")
	fmt.Fprintf(out, "  ID:          %s\n", output.Grant.ID)
	fmt.Fprintf(out, "  Kind:        %s\n", output.Grant.Kind)
	fmt.Fprintf(out, "  Subject:     %s\n", output.Grant.SubjectUserID)
	fmt.Fprintf(out, "  Expires at:  %s\n", output.Grant.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  Token:       %s\n", output.PlainToken)
	fmt.Fprintf(out, "  Mobile URL:  %s\n", output.MobileURL)
	fmt.Fprintf(out, "\nStore the token securely: it is shown only once.\n")
}

// outputCreateGrantJSON outputs the issued grant in JSON format for machine consumption.
func outputCreateGrantJSON(out io.Writer, output *grantDomain.IssueGrantOutput) error {
	result := map[string]any{
		"id":         output.Grant.ID.String(),
		"kind":       string(output.Grant.Kind),
		"subject":    output.Grant.SubjectUserID.String(),
		"expires_at": output.Grant.ExpiresAt.Format(time.RFC3339),
		"token":      output.PlainToken,
		"mobile_url": output.MobileURL,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
