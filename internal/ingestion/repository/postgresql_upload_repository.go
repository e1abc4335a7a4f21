package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/docgate/internal/database"
	apperrors "github.com/allisson/docgate/internal/errors"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// PostgreSQLUploadRepository implements the upload ledger for PostgreSQL.
type PostgreSQLUploadRepository struct {
	db *sql.DB
}

// Create appends a new upload record to the ledger.
func (p *PostgreSQLUploadRepository) Create(ctx context.Context, upload *ingestionDomain.Upload) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO uploads (id, file_name, storage_ref, size_bytes, media_type, uploaded_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		upload.ID,
		upload.FileName,
		upload.StorageRef,
		upload.SizeBytes,
		upload.MediaType,
		upload.UploadedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create upload")
	}
	return nil
}

// Get retrieves an upload record by ID. Returns ErrUploadNotFound if absent.
func (p *PostgreSQLUploadRepository) Get(
	ctx context.Context,
	uploadID uuid.UUID,
) (*ingestionDomain.Upload, error) {
	querier := database.GetTx(ctx, p.db)

	query := selectUploadQueryPG + ` WHERE id = $1`

	return scanUploadPG(querier.QueryRowContext(ctx, query, uploadID))
}

// List returns upload records newest-first with offset/limit pagination.
func (p *PostgreSQLUploadRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*ingestionDomain.Upload, error) {
	querier := database.GetTx(ctx, p.db)

	query := selectUploadQueryPG + ` ORDER BY uploaded_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list uploads")
	}
	defer rows.Close()

	uploads := make([]*ingestionDomain.Upload, 0)
	for rows.Next() {
		upload, err := scanUploadPG(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate uploads")
	}

	return uploads, nil
}

// Delete removes an upload record if present and reports whether a row was removed.
func (p *PostgreSQLUploadRepository) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM uploads WHERE id = $1`, uploadID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete upload")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected > 0, nil
}

const selectUploadQueryPG = `SELECT id, file_name, storage_ref, size_bytes, media_type, uploaded_at
	FROM uploads`

// scanUploadPG scans an upload row.
func scanUploadPG(row rowScanner) (*ingestionDomain.Upload, error) {
	var upload ingestionDomain.Upload

	err := row.Scan(
		&upload.ID,
		&upload.FileName,
		&upload.StorageRef,
		&upload.SizeBytes,
		&upload.MediaType,
		&upload.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ingestionDomain.ErrUploadNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get upload")
	}

	return &upload, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// NewPostgreSQLUploadRepository creates an upload ledger backed by PostgreSQL.
func NewPostgreSQLUploadRepository(db *sql.DB) *PostgreSQLUploadRepository {
	return &PostgreSQLUploadRepository{db: db}
}
