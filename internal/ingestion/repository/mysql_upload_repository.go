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

// MySQLUploadRepository implements the upload ledger for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLUploadRepository struct {
	db *sql.DB
}

// Create appends a new upload record to the ledger.
func (m *MySQLUploadRepository) Create(ctx context.Context, upload *ingestionDomain.Upload) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := upload.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal upload ID")
	}

	query := `INSERT INTO uploads (id, file_name, storage_ref, size_bytes, media_type, uploaded_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idBytes,
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
func (m *MySQLUploadRepository) Get(
	ctx context.Context,
	uploadID uuid.UUID,
) (*ingestionDomain.Upload, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := uploadID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal upload ID")
	}

	query := selectUploadQueryMySQL + ` WHERE id = ?`

	return scanUploadMySQL(querier.QueryRowContext(ctx, query, idBytes))
}

// List returns upload records newest-first with offset/limit pagination.
func (m *MySQLUploadRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*ingestionDomain.Upload, error) {
	querier := database.GetTx(ctx, m.db)

	query := selectUploadQueryMySQL + ` ORDER BY uploaded_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list uploads")
	}
	defer rows.Close()

	uploads := make([]*ingestionDomain.Upload, 0)
	for rows.Next() {
		upload, err := scanUploadMySQL(rows)
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
func (m *MySQLUploadRepository) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := uploadID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal upload ID")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, idBytes)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete upload")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}

	return affected > 0, nil
}

const selectUploadQueryMySQL = `SELECT id, file_name, storage_ref, size_bytes, media_type, uploaded_at
	FROM uploads`

// scanUploadMySQL scans an upload row with a BINARY(16) ID column.
func scanUploadMySQL(row rowScanner) (*ingestionDomain.Upload, error) {
	var upload ingestionDomain.Upload
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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

	uploadID, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal upload ID")
	}
	upload.ID = uploadID

	return &upload, nil
}

// NewMySQLUploadRepository creates an upload ledger backed by MySQL.
func NewMySQLUploadRepository(db *sql.DB) *MySQLUploadRepository {
	return &MySQLUploadRepository{db: db}
}
