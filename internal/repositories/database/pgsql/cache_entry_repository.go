package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxCacheEntryRepository keeps cache entries in the report_cache_entries table.
type pgxCacheEntryRepository struct {
	BaseRepository
}

func newPgxCacheEntryRepository(db *pgxpool.Pool) portsrepo.CacheEntryRepository {
	return &pgxCacheEntryRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetEntry retrieves the entry of a cache key.
func (r *pgxCacheEntryRepository) GetEntry(ctx context.Context, key string) (*domain.CacheEntry, error) {
	query := `
		SELECT cache_key, artifact_path, created_at, accessed_at
		FROM report_cache_entries
		WHERE cache_key = $1;
	`
	var e domain.CacheEntry
	err := r.Pool.QueryRow(ctx, query, key).Scan(&e.Key, &e.ArtifactPath, &e.CreatedAt, &e.AccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cache entry %s: %w", key, err)
	}
	return &e, nil
}

// UpsertEntry inserts the entry or replaces the one with the same key.
func (r *pgxCacheEntryRepository) UpsertEntry(ctx context.Context, entry domain.CacheEntry) error {
	query := `
		INSERT INTO report_cache_entries (cache_key, artifact_path, created_at, accessed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE SET
			artifact_path = EXCLUDED.artifact_path,
			created_at = EXCLUDED.created_at,
			accessed_at = EXCLUDED.accessed_at;
	`
	return r.exec(ctx, "save cache entry", query, entry.Key, entry.ArtifactPath, entry.CreatedAt, entry.AccessedAt)
}

// TouchEntry updates the accessed timestamp of an entry.
func (r *pgxCacheEntryRepository) TouchEntry(ctx context.Context, key string, accessedAt time.Time) error {
	query := `UPDATE report_cache_entries SET accessed_at = $2 WHERE cache_key = $1;`
	return r.exec(ctx, "touch cache entry", query, key, accessedAt)
}

// DeleteEntry removes the entry of a cache key.
func (r *pgxCacheEntryRepository) DeleteEntry(ctx context.Context, key string) error {
	query := `DELETE FROM report_cache_entries WHERE cache_key = $1;`
	return r.exec(ctx, "delete cache entry", query, key)
}

// ListEntries returns every entry ordered by key.
func (r *pgxCacheEntryRepository) ListEntries(ctx context.Context) ([]domain.CacheEntry, error) {
	query := `
		SELECT cache_key, artifact_path, created_at, accessed_at
		FROM report_cache_entries
		ORDER BY cache_key;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying cache entries: %w", err)
	}
	defer rows.Close()

	var result []domain.CacheEntry
	for rows.Next() {
		var e domain.CacheEntry
		if err := rows.Scan(&e.Key, &e.ArtifactPath, &e.CreatedAt, &e.AccessedAt); err != nil {
			return nil, fmt.Errorf("error scanning cache entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}
	return result, nil
}

// DeleteAll empties the table.
func (r *pgxCacheEntryRepository) DeleteAll(ctx context.Context) error {
	return r.exec(ctx, "purge cache entries", `DELETE FROM report_cache_entries;`)
}

func (r *pgxCacheEntryRepository) Location() string {
	return "postgres table report_cache_entries"
}
