package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
	"github.com/allisson/docgate/internal/database"
	apperrors "github.com/allisson/docgate/internal/errors"
)

// MySQLAuditEntryRepository implements AuditEntry persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditEntryRepository struct {
	db *sql.DB
}

// NewMySQLAuditEntryRepository creates a new MySQL AuditEntry repository.
func NewMySQLAuditEntryRepository(db *sql.DB) *MySQLAuditEntryRepository {
	return &MySQLAuditEntryRepository{db: db}
}

// Create inserts a new audit entry using BINARY(16) for UUIDs. Handles nil
// metadata and nil signature as database NULL.
func (m *MySQLAuditEntryRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error

	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit entry metadata")
		}
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	actorID, err := entry.ActorID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry actor_id")
	}

	query := `INSERT INTO audit_entries
			  (id, actor_id, action, object_kind, object_id, metadata, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		actorID,
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
// inclusive (>= and <=). Returns empty slice if no entries match. UUIDs are
// stored as BINARY(16) and must be unmarshaled.
func (m *MySQLAuditEntryRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	// Build dynamic WHERE clause based on provided filters
	var conditions []string
	var args []interface{}

	if createdAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *createdAtFrom)
	}

	if createdAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *createdAtTo)
	}

	query := `SELECT id, actor_id, action, object_kind, object_id, metadata, signature, created_at
			  FROM audit_entries`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

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
		var idBinary, actorIDBinary []byte
		var metadataJSON []byte

		err := rows.Scan(
			&idBinary,
			&actorIDBinary,
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

		if err := entry.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry id")
		}

		if err := entry.ActorID.UnmarshalBinary(actorIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry actor_id")
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
