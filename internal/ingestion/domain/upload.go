// Package domain defines the ingestion policy and the upload ledger model.
//
// An upload is the ledger side of an accepted mobile file submission: the
// bytes live in the external blob store under StorageRef, the ledger keeps
// the metadata. Records are immutable after creation and only disappear by
// explicit administrative delete.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Upload represents one accepted file submission.
type Upload struct {
	ID         uuid.UUID
	FileName   string
	StorageRef string
	SizeBytes  int64
	MediaType  string
	UploadedAt time.Time
}

// FileSubmission carries one file of a mobile submission batch.
// SizeBytes is validated against the declared content, not trusted blindly.
type FileSubmission struct {
	FileName  string
	MediaType string
	Data      []byte
}

// SizeBytes returns the actual size of the submitted content.
func (f *FileSubmission) SizeBytes() int64 {
	return int64(len(f.Data))
}
