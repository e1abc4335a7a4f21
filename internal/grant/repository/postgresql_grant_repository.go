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

// PostgreSQLGrantRepository implements grant persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
// Row-level locking in the database serializes concurrent deletions of the
// same grant, matching the memory repository's guarantee.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// Create inserts a new grant into the PostgreSQL database.
func (p *PostgreSQLGrantRepository) Create(ctx context.Context, grant *grantDomain.Grant) error {
	querier := database.GetTx(ctx, p.db)

	permissions, err := json.Marshal(grant.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	query := `INSERT INTO grants
			  (id, token_hash, kind, subject_user_id, permissions, document_id,
			   folder_id, workflow_id, upload_url, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		grant.ID,
		grant.TokenHash,
		string(grant.Kind),
		grant.SubjectUserID,
		permissions,
		grant.DocumentID,
		grant.FolderID,
		grant.WorkflowID,
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
func (p *PostgreSQLGrantRepository) Get(
	ctx context.Context,
	grantID uuid.UUID,
) (*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := selectGrantQueryPG + ` WHERE id = $1`

	return scanGrantPG(querier.QueryRowContext(ctx, query, grantID))
}

// GetByTokenHash retrieves a grant by the hash of its bearer secret.
func (p *PostgreSQLGrantRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := selectGrantQueryPG + ` WHERE token_hash = $1`

	return scanGrantPG(querier.QueryRowContext(ctx, query, tokenHash))
}

// Delete removes a grant if present and reports whether a row was removed.
func (p *PostgreSQLGrantRepository) Delete(ctx context.Context, grantID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM grants WHERE id = $1`, grantID)
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
func (p *PostgreSQLGrantRepository) ListBySubject(
	ctx context.Context,
	subjectUserID uuid.UUID,
) ([]*grantDomain.Grant, error) {
	querier := database.GetTx(ctx, p.db)

	query := selectGrantQueryPG + ` WHERE subject_user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, subjectUserID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grants")
	}
	defer rows.Close()

	grants := make([]*grantDomain.Grant, 0)
	for rows.Next() {
		grant, err := scanGrantPG(rows)
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
func (p *PostgreSQLGrantRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM grants WHERE expires_at <= $1`,
		before,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired grants")
	}

	return count, nil
}

// DeleteExpired removes grants whose expiry is at or before the given instant.
func (p *PostgreSQLGrantRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM grants WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired grants")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected, nil
}

const selectGrantQueryPG = `SELECT id, token_hash, kind, subject_user_id, permissions,
	document_id, folder_id, workflow_id, upload_url, expires_at, created_at FROM grants`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanGrantPG scans a grant row including the JSON permissions column.
func scanGrantPG(row rowScanner) (*grantDomain.Grant, error) {
	var grant grantDomain.Grant
	var kind string
	var permissions []byte

	err := row.Scan(
		&grant.ID,
		&grant.TokenHash,
		&kind,
		&grant.SubjectUserID,
		&permissions,
		&grant.DocumentID,
		&grant.FolderID,
		&grant.WorkflowID,
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

	grant.Kind = grantDomain.Kind(kind)
	if err := json.Unmarshal(permissions, &grant.Permissions); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
	}

	return &grant, nil
}

// NewPostgreSQLGrantRepository creates a new PostgreSQL grant repository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}
