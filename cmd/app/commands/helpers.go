// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/docgate/internal/app"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseKind converts a kind string to grantDomain.Kind.
// Returns an error if the kind string is invalid.
func parseKind(kind string) (grantDomain.Kind, error) {
	parsed := grantDomain.Kind(kind)
	if !parsed.Valid() {
		return "", fmt.Errorf(
			"invalid grant kind: %s (valid options: document_upload, folder_access, workflow_action)",
			kind,
		)
	}
	return parsed, nil
}

// parsePermissions converts a comma-separated permission list to domain permissions.
func parsePermissions(permissions string) ([]grantDomain.Permission, error) {
	var parsed []grantDomain.Permission
	for _, raw := range strings.Split(permissions, ",") {
		permission := strings.TrimSpace(raw)
		if permission == "" {
			continue
		}
		parsed = append(parsed, grantDomain.Permission(permission))
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("permissions must not be empty")
	}
	return parsed, nil
}
