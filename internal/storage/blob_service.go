// Package storage provides object persistence for ingested document files
// using gocloud.dev/blob. The bucket backend is selected by URL, so the same
// code serves local directories in development and cloud object stores in
// production.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gocloud.dev/blob"

	apperrors "github.com/allisson/docgate/internal/errors"

	// Register blob provider drivers
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobService stores and removes ingested file contents.
//
// Store failures surface as ErrUnavailable so handlers can report the blob
// store as a failed upstream dependency rather than an internal error.
type BlobService interface {
	// Store writes the file contents under a fresh unique key and returns the key.
	// The key embeds a UUIDv7 prefix, so storing the same file name twice yields
	// two distinct objects.
	Store(ctx context.Context, fileName, contentType string, data []byte) (string, error)

	// Delete removes a stored object by its key. Deleting an absent key is an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying bucket connection.
	Close() error
}

// blobService implements BlobService on top of a gocloud.dev bucket.
type blobService struct {
	bucket *blob.Bucket
}

// NewBlobService opens the bucket identified by bucketURL.
// Supports: file://, mem://, s3://, gs://, azblob://
func NewBlobService(ctx context.Context, bucketURL string) (BlobService, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}
	return &blobService{bucket: bucket}, nil
}

// Store writes data under "<uuidv7>/<fileName>" and returns that key.
func (b *blobService) Store(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s", uuid.Must(uuid.NewV7()).String(), fileName)

	options := &blob.WriterOptions{
		ContentType: contentType,
	}

	if err := b.bucket.WriteAll(ctx, key, data, options); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrUnavailable, "failed to store object %q: %v", key, err)
	}

	return key, nil
}

// Delete removes the object stored under key.
func (b *blobService) Delete(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil {
		return apperrors.Wrapf(apperrors.ErrUnavailable, "failed to delete object %q: %v", key, err)
	}
	return nil
}

// Close releases the bucket.
func (b *blobService) Close() error {
	return b.bucket.Close()
}
