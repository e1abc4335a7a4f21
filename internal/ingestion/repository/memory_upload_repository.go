// Package repository provides persistence implementations for the upload ledger.
package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// MemoryUploadRepository implements the upload ledger in process memory.
// The single mutex serializes mutations so a concurrent delete and read of
// the same record never observe half-applied state. Records are returned by
// value so callers cannot mutate ledger state.
type MemoryUploadRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*ingestionDomain.Upload
	order []uuid.UUID
}

// NewMemoryUploadRepository creates an empty in-memory upload ledger.
func NewMemoryUploadRepository() *MemoryUploadRepository {
	return &MemoryUploadRepository{
		byID: make(map[uuid.UUID]*ingestionDomain.Upload),
	}
}

// Create appends a new upload record to the ledger.
func (m *MemoryUploadRepository) Create(ctx context.Context, upload *ingestionDomain.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[upload.ID]; exists {
		return ingestionDomain.ErrUploadAlreadyExists
	}

	m.byID[upload.ID] = cloneUpload(upload)
	m.order = append(m.order, upload.ID)

	return nil
}

// Get retrieves an upload record by ID.
func (m *MemoryUploadRepository) Get(ctx context.Context, uploadID uuid.UUID) (*ingestionDomain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	upload, exists := m.byID[uploadID]
	if !exists {
		return nil, ingestionDomain.ErrUploadNotFound
	}

	return cloneUpload(upload), nil
}

// List returns upload records newest-first with offset/limit pagination.
func (m *MemoryUploadRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*ingestionDomain.Upload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uploads := make([]*ingestionDomain.Upload, 0, limit)
	// Walk the append order backwards: most recent first
	for i := len(m.order) - 1 - offset; i >= 0 && len(uploads) < limit; i-- {
		uploads = append(uploads, cloneUpload(m.byID[m.order[i]]))
	}

	return uploads, nil
}

// Delete removes an upload record if present and reports whether it was present.
func (m *MemoryUploadRepository) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[uploadID]; !exists {
		return false, nil
	}

	delete(m.byID, uploadID)
	for i, id := range m.order {
		if id == uploadID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return true, nil
}

// cloneUpload returns a deep copy so ledger state never escapes by reference.
func cloneUpload(upload *ingestionDomain.Upload) *ingestionDomain.Upload {
	clone := *upload
	return &clone
}
