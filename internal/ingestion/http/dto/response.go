package dto

import (
	"time"

	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// UploadResponse represents a ledger entry in API responses.
type UploadResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	StorageRef string    `json:"storage_ref"`
	SizeBytes  int64     `json:"size_bytes"`
	MediaType  string    `json:"media_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// MapUploadToResponse converts a domain upload to an API response.
func MapUploadToResponse(upload *ingestionDomain.Upload) UploadResponse {
	return UploadResponse{
		ID:         upload.ID.String(),
		FileName:   upload.FileName,
		StorageRef: upload.StorageRef,
		SizeBytes:  upload.SizeBytes,
		MediaType:  upload.MediaType,
		UploadedAt: upload.UploadedAt,
	}
}

// ListUploadsResponse represents a list of ledger entries in API responses.
type ListUploadsResponse struct {
	Data   []UploadResponse `json:"data"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

// MapUploadsToListResponse converts a slice of domain uploads to a list API response.
func MapUploadsToListResponse(uploads []*ingestionDomain.Upload, offset, limit int) ListUploadsResponse {
	uploadResponses := make([]UploadResponse, 0, len(uploads))
	for _, upload := range uploads {
		uploadResponses = append(uploadResponses, MapUploadToResponse(upload))
	}
	return ListUploadsResponse{
		Data:   uploadResponses,
		Offset: offset,
		Limit:  limit,
	}
}

// SubmitResponse contains the outcome of a mobile file submission.
// On partial failure the accepted entries are still reported so the
// client does not resubmit files that already landed.
type SubmitResponse struct {
	Uploads []UploadResponse `json:"uploads"`
}

// MapUploadsToSubmitResponse converts committed uploads to a submission response.
func MapUploadsToSubmitResponse(uploads []*ingestionDomain.Upload) SubmitResponse {
	uploadResponses := make([]UploadResponse, 0, len(uploads))
	for _, upload := range uploads {
		uploadResponses = append(uploadResponses, MapUploadToResponse(upload))
	}
	return SubmitResponse{Uploads: uploadResponses}
}
