package domain

import (
	apperrors "github.com/allisson/docgate/internal/errors"
)

// Ingestion domain errors wrapping standard domain errors for HTTP mapping.
var (
	// ErrUploadNotFound indicates the requested upload record does not exist.
	ErrUploadNotFound = apperrors.Wrap(apperrors.ErrNotFound, "upload")

	// ErrUploadAlreadyExists indicates an upload record with the same ID exists.
	ErrUploadAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "upload")

	// ErrFileTooLarge indicates a submitted file exceeds the size limit.
	ErrFileTooLarge = apperrors.Wrap(apperrors.ErrTooLarge, "file")

	// ErrUnsupportedMediaType indicates a submitted file's declared media type
	// is not accepted by the ingestion policy.
	ErrUnsupportedMediaType = apperrors.Wrap(apperrors.ErrUnsupportedMedia, "file")
)
