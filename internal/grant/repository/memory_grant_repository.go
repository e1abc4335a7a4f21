// Package repository provides grant persistence implementations.
//
// The memory repository is the registry described by the service's default
// configuration: an in-process, mutex-guarded map. The PostgreSQL and MySQL
// repositories are the durable options preserving the same uniqueness and
// ordering invariants.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

// MemoryGrantRepository implements grant persistence in process memory.
//
// A single mutex serializes every mutation, so a validate-triggered eviction
// and a concurrent revoke of the same grant can never leave the maps
// inconsistent: the final state is "absent" regardless of interleaving.
// Grants are handed out as copies; callers can never mutate stored state.
type MemoryGrantRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*grantDomain.Grant
	byHash map[string]uuid.UUID
	order  []uuid.UUID
}

// NewMemoryGrantRepository creates an empty in-memory grant repository.
func NewMemoryGrantRepository() *MemoryGrantRepository {
	return &MemoryGrantRepository{
		byID:   make(map[uuid.UUID]*grantDomain.Grant),
		byHash: make(map[string]uuid.UUID),
	}
}

// Create stores a new grant. Duplicate IDs or token hashes are rejected with
// ErrConflict; with UUIDv7 IDs and 256-bit random secrets this only trips in
// tests that force it.
func (m *MemoryGrantRepository) Create(ctx context.Context, grant *grantDomain.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[grant.ID]; exists {
		return grantDomain.ErrGrantAlreadyExists
	}
	if _, exists := m.byHash[grant.TokenHash]; exists {
		return grantDomain.ErrGrantAlreadyExists
	}

	stored := cloneGrant(grant)
	m.byID[stored.ID] = stored
	m.byHash[stored.TokenHash] = stored.ID
	m.order = append(m.order, stored.ID)

	return nil
}

// Get retrieves a grant by ID.
func (m *MemoryGrantRepository) Get(ctx context.Context, grantID uuid.UUID) (*grantDomain.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grant, ok := m.byID[grantID]
	if !ok {
		return nil, grantDomain.ErrGrantNotFound
	}

	return cloneGrant(grant), nil
}

// GetByTokenHash retrieves a grant by the hash of its bearer secret.
func (m *MemoryGrantRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*grantDomain.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grantID, ok := m.byHash[tokenHash]
	if !ok {
		return nil, grantDomain.ErrGrantNotFound
	}

	return cloneGrant(m.byID[grantID]), nil
}

// Delete removes a grant if present and reports whether it was present.
func (m *MemoryGrantRepository) Delete(ctx context.Context, grantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.deleteLocked(grantID), nil
}

// ListBySubject returns the subject's grants in creation order, expired included.
func (m *MemoryGrantRepository) ListBySubject(
	ctx context.Context,
	subjectUserID uuid.UUID,
) ([]*grantDomain.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	grants := make([]*grantDomain.Grant, 0)
	for _, id := range m.order {
		grant, ok := m.byID[id]
		if !ok {
			continue
		}
		if grant.SubjectUserID == subjectUserID {
			grants = append(grants, cloneGrant(grant))
		}
	}

	return grants, nil
}

// CountExpired counts grants whose expiry is at or before the given instant.
func (m *MemoryGrantRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, grant := range m.byID {
		if !grant.ExpiresAt.After(before) {
			count++
		}
	}

	return count, nil
}

// DeleteExpired removes grants whose expiry is at or before the given instant.
func (m *MemoryGrantRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for id, grant := range m.byID {
		if !grant.ExpiresAt.After(before) {
			if m.deleteLocked(id) {
				count++
			}
		}
	}

	return count, nil
}

// deleteLocked removes a grant from all indexes. Caller must hold the write lock.
func (m *MemoryGrantRepository) deleteLocked(grantID uuid.UUID) bool {
	grant, ok := m.byID[grantID]
	if !ok {
		return false
	}

	delete(m.byID, grantID)
	delete(m.byHash, grant.TokenHash)
	for i, id := range m.order {
		if id == grantID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return true
}

// cloneGrant copies a grant so internal state never escapes by reference.
func cloneGrant(grant *grantDomain.Grant) *grantDomain.Grant {
	clone := *grant
	clone.Permissions = append([]grantDomain.Permission(nil), grant.Permissions...)
	if grant.DocumentID != nil {
		id := *grant.DocumentID
		clone.DocumentID = &id
	}
	if grant.FolderID != nil {
		id := *grant.FolderID
		clone.FolderID = &id
	}
	if grant.WorkflowID != nil {
		id := *grant.WorkflowID
		clone.WorkflowID = &id
	}
	return &clone
}
