package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
	"github.com/allisson/docgate/internal/database"
	apperrors "github.com/allisson/docgate/internal/errors"
)

// PostgreSQLAuditEntryRepository implements AuditEntry persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLAuditEntryRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditEntryRepository creates a new PostgreSQL AuditEntry repository.
func NewPostgreSQLAuditEntryRepository(db *sql.DB) *PostgreSQLAuditEntryRepository {
	return &PostgreSQLAuditEntryRepository{db: db}
}

// Create inserts a new audit entry. Handles nil metadata and nil signature as
// database NULL.
func (p *PostgreSQLAuditEntryRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error

	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry metadata")
		}
	}

	query := `INSERT INTO audit_entries
			  (id, actor_id, action, object_kind, object_id, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ActorID,
		entry.Action,
		entry.ObjectKind,
		entry.ObjectID,
		metadataJSON,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// List retrieves audit entries ordered by created_at descending (newest first)
// with pagination and optional time-based filtering. Both boundaries are
// inclusive (>= and <=). Returns empty slice if no entries match. Handles NULL
// metadata gracefully by returning nil map for those entries.
func (p *PostgreSQLAuditEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	// Build dynamic WHERE clause based on provided filters
	var conditions []string
	var args []interface{}

	if createdAtFrom != nil {
		args = append(args, *createdAtFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if createdAtTo != nil {
		args = append(args, *createdAtTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, actor_id, action, object_kind, object_id, metadata, signature, created_at
			  FROM audit_entries`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	entries := make([]*auditDomain.AuditEntry, 0)
	for rows.Next() {
		var entry auditDomain.AuditEntry
		var metadataJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.ObjectKind,
			&entry.ObjectID,
			&metadataJSON,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}

		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit entry metadata")
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}
