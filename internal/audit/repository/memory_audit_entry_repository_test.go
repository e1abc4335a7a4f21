package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

func createTestAuditEntry(action string, createdAt time.Time) *auditDomain.AuditEntry {
	return &auditDomain.AuditEntry{
		ID:         uuid.Must(uuid.NewV7()),
		ActorID:    uuid.Must(uuid.NewV7()),
		Action:     action,
		ObjectKind: "upload",
		ObjectID:   uuid.Must(uuid.NewV7()).String(),
		Metadata:   map[string]any{"file_name": "photo.jpg"},
		CreatedAt:  createdAt,
	}
}

func TestMemoryAuditEntryRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a copy of the entry", func(t *testing.T) {
		repo := NewMemoryAuditEntryRepository()
		entry := createTestAuditEntry("file_uploaded", time.Now().UTC())

		require.NoError(t, repo.Create(ctx, entry))

		// Mutating the original must not change stored state
		entry.Metadata["file_name"] = "mutated.jpg"

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "photo.jpg", entries[0].Metadata["file_name"])
	})
}

func TestMemoryAuditEntryRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Newest first", func(t *testing.T) {
		repo := NewMemoryAuditEntryRepository()

		first := createTestAuditEntry("grant_issued", now.Add(-2*time.Hour))
		second := createTestAuditEntry("file_uploaded", now.Add(-time.Hour))
		third := createTestAuditEntry("grant_revoked", now)

		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))
		require.NoError(t, repo.Create(ctx, third))

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "grant_revoked", entries[0].Action)
		assert.Equal(t, "file_uploaded", entries[1].Action)
		assert.Equal(t, "grant_issued", entries[2].Action)
	})

	t.Run("Pagination", func(t *testing.T) {
		repo := NewMemoryAuditEntryRepository()

		for i := range 5 {
			entry := createTestAuditEntry("file_uploaded", now.Add(time.Duration(i)*time.Minute))
			require.NoError(t, repo.Create(ctx, entry))
		}

		page, err := repo.List(ctx, 2, 2, nil, nil)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		beyond, err := repo.List(ctx, 10, 2, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, beyond)
		assert.Empty(t, beyond)
	})

	t.Run("Inclusive time filters", func(t *testing.T) {
		repo := NewMemoryAuditEntryRepository()

		old := createTestAuditEntry("grant_issued", now.Add(-3*time.Hour))
		boundary := createTestAuditEntry("file_uploaded", now.Add(-2*time.Hour))
		recent := createTestAuditEntry("grant_revoked", now)

		require.NoError(t, repo.Create(ctx, old))
		require.NoError(t, repo.Create(ctx, boundary))
		require.NoError(t, repo.Create(ctx, recent))

		from := now.Add(-2 * time.Hour)
		entries, err := repo.List(ctx, 0, 10, &from, nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "grant_revoked", entries[0].Action)
		assert.Equal(t, "file_uploaded", entries[1].Action)

		to := now.Add(-2 * time.Hour)
		entries, err = repo.List(ctx, 0, 10, nil, &to)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "file_uploaded", entries[0].Action)
		assert.Equal(t, "grant_issued", entries[1].Action)

		entries, err = repo.List(ctx, 0, 10, &from, &to)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "file_uploaded", entries[0].Action)
	})

	t.Run("Empty repository", func(t *testing.T) {
		repo := NewMemoryAuditEntryRepository()

		entries, err := repo.List(ctx, 0, 10, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}
