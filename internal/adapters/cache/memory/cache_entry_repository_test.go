package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/memory"
	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCacheEntryRepository()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := repo.GetEntry(ctx, "k1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: "k1", ArtifactPath: "/tmp/a.xlsx", CreatedAt: created, AccessedAt: created}))
	require.NoError(t, repo.TouchEntry(ctx, "k1", created.Add(time.Hour)))
	require.NoError(t, repo.TouchEntry(ctx, "absent", created), "touching an absent key is a no-op")

	e, err := repo.GetEntry(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.xlsx", e.ArtifactPath)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), e.AccessedAt)

	require.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: "k0", ArtifactPath: "/tmp/b.xlsx"}))
	list, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "k0", list[0].Key)

	require.NoError(t, repo.DeleteEntry(ctx, "k0"))
	list, _ = repo.ListEntries(ctx)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteAll(ctx))
	list, _ = repo.ListEntries(ctx)
	assert.Empty(t, list)
	assert.Equal(t, "memory", repo.Location())
}
