package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/file"
	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntryRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "cache_metadata.json")
	now := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

	repo := file.NewCacheEntryRepository(path)
	_, err := repo.GetEntry(ctx, "k")
	require.ErrorIs(t, err, apperrors.ErrNotFound, "a missing metadata file is an empty map")

	require.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: "k", ArtifactPath: "out/r.xlsx", CreatedAt: now, AccessedAt: now}))

	reopened := file.NewCacheEntryRepository(path)
	e, err := reopened.GetEntry(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "k", e.Key)
	assert.Equal(t, "out/r.xlsx", e.ArtifactPath)
	assert.True(t, now.Equal(e.CreatedAt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "out/r.xlsx", onDisk["k"]["file_path"])
	assert.Contains(t, onDisk["k"], "created_at")
	assert.Contains(t, onDisk["k"], "accessed_at")
	assert.Equal(t, path, repo.Location())
}

func TestCacheEntryRepository_TouchDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	repo := file.NewCacheEntryRepository(filepath.Join(t.TempDir(), "meta.json"))
	now := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: "a", ArtifactPath: "a.xlsx", CreatedAt: now, AccessedAt: now}))
	require.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: "b", ArtifactPath: "b.xlsx", CreatedAt: now, AccessedAt: now}))
	require.NoError(t, repo.TouchEntry(ctx, "a", now.Add(time.Minute)))

	a, err := repo.GetEntry(ctx, "a")
	require.NoError(t, err)
	assert.True(t, now.Equal(a.CreatedAt))
	assert.True(t, now.Add(time.Minute).Equal(a.AccessedAt))

	require.NoError(t, repo.DeleteEntry(ctx, "a"))
	list, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Key)

	require.NoError(t, repo.DeleteAll(ctx))
	list, err = repo.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCacheEntryRepository_ConcurrentWritersKeepEveryEntry(t *testing.T) {
	ctx := context.Background()
	repo := file.NewCacheEntryRepository(filepath.Join(t.TempDir(), "meta.json"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			assert.NoError(t, repo.UpsertEntry(ctx, domain.CacheEntry{Key: key, ArtifactPath: key + ".xlsx"}))
		}(i)
	}
	wg.Wait()

	list, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func TestCacheEntryRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := file.NewCacheEntryRepository(path).ListEntries(context.Background())
	assert.Error(t, err)
}
