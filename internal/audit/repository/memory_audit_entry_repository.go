// Package repository provides audit entry persistence implementations.
package repository

import (
	"context"
	"sync"
	"time"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

// MemoryAuditEntryRepository implements AuditEntry persistence in process
// memory. Entries do not survive a restart; intended for development and the
// default memory driver.
type MemoryAuditEntryRepository struct {
	mu      sync.RWMutex
	entries []*auditDomain.AuditEntry
}

// NewMemoryAuditEntryRepository creates a new in-memory AuditEntry repository.
func NewMemoryAuditEntryRepository() *MemoryAuditEntryRepository {
	return &MemoryAuditEntryRepository{}
}

// Create appends a new audit entry. Entries are kept in insertion order, which
// matches creation time order since IDs and timestamps are stamped at insert.
func (m *MemoryAuditEntryRepository) Create(_ context.Context, entry *auditDomain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, cloneAuditEntry(entry))
	return nil
}

// List returns entries newest-first with pagination and optional inclusive
// time filters (nil means no filter).
func (m *MemoryAuditEntryRepository) List(
	_ context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*auditDomain.AuditEntry, 0)
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if createdAtFrom != nil && entry.CreatedAt.Before(*createdAtFrom) {
			continue
		}
		if createdAtTo != nil && entry.CreatedAt.After(*createdAtTo) {
			continue
		}
		matched = append(matched, entry)
	}

	if offset >= len(matched) {
		return []*auditDomain.AuditEntry{}, nil
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	entries := make([]*auditDomain.AuditEntry, 0, end-offset)
	for _, entry := range matched[offset:end] {
		entries = append(entries, cloneAuditEntry(entry))
	}

	return entries, nil
}

// cloneAuditEntry copies an entry so callers cannot mutate stored state.
func cloneAuditEntry(entry *auditDomain.AuditEntry) *auditDomain.AuditEntry {
	clone := *entry

	if entry.Metadata != nil {
		clone.Metadata = make(map[string]any, len(entry.Metadata))
		for k, v := range entry.Metadata {
			clone.Metadata[k] = v
		}
	}

	if entry.Signature != nil {
		clone.Signature = make([]byte, len(entry.Signature))
		copy(clone.Signature, entry.Signature)
	}

	return &clone
}
