package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/docgate/internal/database"
	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

// MySQLGrantRepository implements grant persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLGrantRepository struct {
	db *sql.DB
}

// Create inserts a new grant into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLGrantRepository) Create(ctx context.Context, grant *grantDomain.Grant) error {
	querier := database.GetTx(ctx, m.db)

	permissions, err := json.Marshal(grant.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	id, err := grant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant id")
	}

	subjectUserID, err := grant.SubjectUserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subject user id")
	}

	documentID, err := marshalOptionalUUID(grant.DocumentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal document id")
	}
	folderID, err := marshalOptionalUUID(grant.FolderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}
	workflowID, err := marshalOptionalUUID(grant.WorkflowID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal workflow id")
	}

	query := `INSERT INTO grants
			  (id, token_hash, kind, subject_user_id, permissions, document_id,
			   folder_id, workflow_id, upload_url, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		grant.TokenHash,
		string(grant.Kind),
		subjectUserID,
		permissions,
		documentID,
		folderID,
		workflowID,
		grant.UploadURL,
		grant.ExpiresAt,
		grant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create grant")
	}
	return nil
}

// Get retrieves a grant by ID. Returns ErrGrantNotFound if the grant doesn't exist.
func (m *MySQLGrantRepository) Get(
	ctx context.Context,
	grantID uuid.UUID,
) (*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := grantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal grant id")
	}

	query := selectGrantQueryMySQL + ` WHERE id = ?`

	return scanGrantMySQL(querier.QueryRowContext(ctx, query, id))
}

// GetByTokenHash retrieves a grant by the hash of its bearer secret.
func (m *MySQLGrantRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	query := selectGrantQueryMySQL + ` WHERE token_hash = ?`

	return scanGrantMySQL(querier.QueryRowContext(ctx, query, tokenHash))
}

// Delete removes a grant if present and reports whether a row was removed.
func (m *MySQLGrantRepository) Delete(ctx context.Context, grantID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := grantID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal grant id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM grants WHERE id = ?`, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete grant")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected > 0, nil
}

// ListBySubject returns the subject's grants in creation order, expired included.
func (m *MySQLGrantRepository) ListBySubject(
	ctx context.Context,
	subjectUserID uuid.UUID,
) ([]*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subjectUserID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subject user id")
	}

	query := selectGrantQueryMySQL + ` WHERE subject_user_id = ? ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close()

	grants := make([]*grantDomain.Grant, 0)
	for rows.Next() {
		grant, err := scanGrantMySQL(rows)
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate grants")
	}

	return grants, nil
}

// CountExpired counts grants whose expiry is at or before the given instant.
func (m *MySQLGrantRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM grants WHERE expires_at <= ?`,
		before,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired grants")
	}

	return count, nil
}

// DeleteExpired removes grants whose expiry is at or before the given instant.
func (m *MySQLGrantRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM grants WHERE expires_at <= ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired grants")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected, nil
}

const selectGrantQueryMySQL = `SELECT id, token_hash, kind, subject_user_id, permissions,
	document_id, folder_id, workflow_id, upload_url, expires_at, created_at FROM grants`

// scanGrantMySQL scans a grant row, converting BINARY(16) columns back to UUIDs.
func scanGrantMySQL(row rowScanner) (*grantDomain.Grant, error) {
	var grant grantDomain.Grant
	var kind string
	var permissions []byte
	var id, subjectUserID []byte
	var documentID, folderID, workflowID []byte

	err := row.Scan(
		&id,
		&grant.TokenHash,
		&kind,
		&subjectUserID,
		&permissions,
		&documentID,
		&folderID,
		&workflowID,
		&grant.UploadURL,
		&grant.ExpiresAt,
		&grant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, grantDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get grant")
	}

	if grant.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant id")
	}
	if grant.SubjectUserID, err = uuid.FromBytes(subjectUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subject user id")
	}
	if grant.DocumentID, err = unmarshalOptionalUUID(documentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal document id")
	}
	if grant.FolderID, err = unmarshalOptionalUUID(folderID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal folder id")
	}
	if grant.WorkflowID, err = unmarshalOptionalUUID(workflowID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal workflow id")
	}

	grant.Kind = grantDomain.Kind(kind)
	if err := json.Unmarshal(permissions, &grant.Permissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &grant, nil
}

// marshalOptionalUUID converts an optional UUID to BINARY(16) bytes or nil.
func marshalOptionalUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

// unmarshalOptionalUUID converts BINARY(16) bytes back to an optional UUID.
func unmarshalOptionalUUID(data []byte) (*uuid.UUID, error) {
	if data == nil {
		return nil, nil
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewMySQLGrantRepository creates a new MySQL grant repository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}
