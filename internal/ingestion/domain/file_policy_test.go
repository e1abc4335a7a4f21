package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/docgate/internal/errors"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name      string
		sizeBytes int64
		mediaType string
		wantErr   error
	}{
		{
			name:      "Success_SmallJPEG",
			sizeBytes: 2 * 1024 * 1024,
			mediaType: "image/jpeg",
		},
		{
			name:      "Success_PNG",
			sizeBytes: 512,
			mediaType: "image/png",
		},
		{
			name:      "Success_TIFF",
			sizeBytes: 1024,
			mediaType: "image/tiff",
		},
		{
			name:      "Success_PDF",
			sizeBytes: 10 * 1024 * 1024,
			mediaType: "application/pdf",
		},
		{
			name:      "Success_ExactlyAtSizeLimit",
			sizeBytes: MaxFileSizeBytes,
			mediaType: "application/pdf",
		},
		{
			name:      "Error_OneByteOverLimit",
			sizeBytes: MaxFileSizeBytes + 1,
			mediaType: "application/pdf",
			wantErr:   ErrFileTooLarge,
		},
		{
			name:      "Error_GIFNotAccepted",
			sizeBytes: 1024,
			mediaType: "image/gif",
			wantErr:   ErrUnsupportedMediaType,
		},
		{
			name:      "Error_EmptyMediaType",
			sizeBytes: 1024,
			mediaType: "",
			wantErr:   ErrUnsupportedMediaType,
		},
		{
			name:      "Error_OversizedAndUnsupported_SizeWins",
			sizeBytes: MaxFileSizeBytes + 1,
			mediaType: "image/gif",
			wantErr:   ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.sizeBytes, tt.mediaType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFile_ErrorMapping(t *testing.T) {
	// Policy errors carry the ambient sentinels used for HTTP status mapping
	assert.ErrorIs(t, ValidateFile(MaxFileSizeBytes+1, "application/pdf"), apperrors.ErrTooLarge)
	assert.ErrorIs(t, ValidateFile(1024, "image/gif"), apperrors.ErrUnsupportedMedia)
}

func TestFileSubmission_SizeBytes(t *testing.T) {
	submission := &FileSubmission{
		FileName:  "scan.pdf",
		MediaType: "application/pdf",
		Data:      []byte("pdf-bytes"),
	}

	assert.Equal(t, int64(9), submission.SizeBytes())
}
