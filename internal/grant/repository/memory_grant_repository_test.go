package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

func createTestGrant(subjectUserID uuid.UUID, tokenHash string, expiresAt time.Time) *grantDomain.Grant {
	return &grantDomain.Grant{
		ID:            uuid.Must(uuid.NewV7()),
		TokenHash:     tokenHash,
		Kind:          grantDomain.DocumentUploadKind,
		SubjectUserID: subjectUserID,
		Permissions:   []grantDomain.Permission{grantDomain.DocumentCreatePermission},
		ExpiresAt:     expiresAt,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestMemoryGrantRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGrantRepository()
	subjectID := uuid.Must(uuid.NewV7())

	grant := createTestGrant(subjectID, "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, grant))

	t.Run("Success_GetByID", func(t *testing.T) {
		got, err := repo.Get(ctx, grant.ID)
		require.NoError(t, err)
		assert.Equal(t, grant.ID, got.ID)
		assert.Equal(t, grant.TokenHash, got.TokenHash)
		assert.Equal(t, grant.Permissions, got.Permissions)
	})

	t.Run("Success_GetByTokenHash", func(t *testing.T) {
		got, err := repo.GetByTokenHash(ctx, "hash-1")
		require.NoError(t, err)
		assert.Equal(t, grant.ID, got.ID)
	})

	t.Run("Error_UnknownID", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)
	})

	t.Run("Error_UnknownTokenHash", func(t *testing.T) {
		_, err := repo.GetByTokenHash(ctx, "no-such-hash")
		assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)
	})

	t.Run("Error_DuplicateID", func(t *testing.T) {
		dup := createTestGrant(subjectID, "hash-other", time.Now().UTC().Add(time.Hour))
		dup.ID = grant.ID
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_DuplicateTokenHash", func(t *testing.T) {
		dup := createTestGrant(subjectID, "hash-1", time.Now().UTC().Add(time.Hour))
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMemoryGrantRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGrantRepository()

	grant := createTestGrant(uuid.Must(uuid.NewV7()), "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, grant))

	// Mutating a returned grant must not affect stored state
	got, err := repo.Get(ctx, grant.ID)
	require.NoError(t, err)
	got.Permissions[0] = grantDomain.Permission("tampered.permission")

	fresh, err := repo.Get(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, grantDomain.DocumentCreatePermission, fresh.Permissions[0])
}

func TestMemoryGrantRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGrantRepository()

	grant := createTestGrant(uuid.Must(uuid.NewV7()), "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, grant))

	removed, err := repo.Delete(ctx, grant.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	// Token hash index is cleaned up as well
	_, err = repo.GetByTokenHash(ctx, "hash-1")
	assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)

	// Idempotent: second delete reports not present
	removed, err = repo.Delete(ctx, grant.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryGrantRepository_ListBySubject(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGrantRepository()

	subject1 := uuid.Must(uuid.NewV7())
	subject2 := uuid.Must(uuid.NewV7())

	first := createTestGrant(subject1, "hash-1", time.Now().UTC().Add(time.Hour))
	second := createTestGrant(subject1, "hash-2", time.Now().UTC().Add(2*time.Hour))
	other := createTestGrant(subject2, "hash-3", time.Now().UTC().Add(time.Hour))

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	grants, err := repo.ListBySubject(ctx, subject1)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	// Creation order is preserved
	assert.Equal(t, first.ID, grants[0].ID)
	assert.Equal(t, second.ID, grants[1].ID)
}

func TestMemoryGrantRepository_ExpiredHousekeeping(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGrantRepository()
	now := time.Now().UTC()

	expired1 := createTestGrant(uuid.Must(uuid.NewV7()), "hash-1", now.Add(-2*time.Hour))
	expired2 := createTestGrant(uuid.Must(uuid.NewV7()), "hash-2", now.Add(-time.Minute))
	live := createTestGrant(uuid.Must(uuid.NewV7()), "hash-3", now.Add(time.Hour))

	require.NoError(t, repo.Create(ctx, expired1))
	require.NoError(t, repo.Create(ctx, expired2))
	require.NoError(t, repo.Create(ctx, live))

	count, err := repo.CountExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// Only the live grant remains
	_, err = repo.Get(ctx, expired1.ID)
	assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)
	_, err = repo.Get(ctx, live.ID)
	assert.NoError(t, err)
}

// A revoke racing with a validate-triggered eviction of the same grant must
// always converge to "absent", whichever deletion wins.
func TestMemoryGrantRepository_ConcurrentDelete(t *testing.T) {
	ctx := context.Background()

	for range 50 {
		repo := NewMemoryGrantRepository()
		grant := createTestGrant(uuid.Must(uuid.NewV7()), "hash-race", time.Now().UTC().Add(-time.Minute))
		require.NoError(t, repo.Create(ctx, grant))

		var wg sync.WaitGroup
		results := make([]bool, 2)

		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				removed, err := repo.Delete(ctx, grant.ID)
				assert.NoError(t, err)
				results[i] = removed
			}()
		}
		wg.Wait()

		// Exactly one deletion observed the grant; the final state is absent
		assert.NotEqual(t, results[0], results[1])
		_, err := repo.Get(ctx, grant.ID)
		assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)
		_, err = repo.GetByTokenHash(ctx, "hash-race")
		assert.ErrorIs(t, err, grantDomain.ErrGrantNotFound)
	}
}
