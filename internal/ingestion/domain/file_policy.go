package domain

import (
	apperrors "github.com/allisson/docgate/internal/errors"
)

// MaxFileSizeBytes is the upper bound for a single submitted file (50 MiB).
// A file of exactly this size is accepted; one byte more is rejected.
const MaxFileSizeBytes = 50 * 1024 * 1024

// allowedMediaTypes is the closed set of media types accepted from mobile
// clients. The declared type is trusted as-is; legacy clients depend on this
// exact accept/reject boundary.
var allowedMediaTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/tiff":      {},
	"application/pdf": {},
}

// ValidateFile applies the ingestion policy to one file's declared size and
// media type. Returns ErrFileTooLarge, ErrUnsupportedMediaType, or nil.
func ValidateFile(sizeBytes int64, mediaType string) error {
	if sizeBytes > MaxFileSizeBytes {
		return apperrors.Wrapf(ErrFileTooLarge, "size %d exceeds limit %d", sizeBytes, int64(MaxFileSizeBytes))
	}
	if _, ok := allowedMediaTypes[mediaType]; !ok {
		return apperrors.Wrapf(ErrUnsupportedMediaType, "media type %q", mediaType)
	}
	return nil
}
