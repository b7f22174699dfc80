package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	goredis "github.com/redis/go-redis/v9"
)

// CacheEntryRepository stores every entry as a JSON field of a single Redis
// hash, so several service instances can share one cache map.
type CacheEntryRepository struct {
	client goredis.UniversalClient
	hash   string
}

// NewCacheEntryRepository creates a repository using the hash named hashKey.
func NewCacheEntryRepository(client goredis.UniversalClient, hashKey string) portsrepo.CacheEntryRepository {
	return &CacheEntryRepository{client: client, hash: hashKey}
}

func decodeEntry(key, raw string) (*domain.CacheEntry, error) {
	var e domain.CacheEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	e.Key = key
	return &e, nil
}

func (r *CacheEntryRepository) GetEntry(ctx context.Context, key string) (*domain.CacheEntry, error) {
	raw, err := r.client.HGet(ctx, r.hash, key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	return decodeEntry(key, raw)
}

func (r *CacheEntryRepository) UpsertEntry(ctx context.Context, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := r.client.HSet(ctx, r.hash, entry.Key, data).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", entry.Key, err)
	}
	return nil
}

// touchScript updates accessed_at in place. Running server-side keeps the
// update atomic without watching the whole hash, and an entry deleted
// concurrently stays deleted.
var touchScript = goredis.NewScript(`
local raw = redis.call('HGET', KEYS[1], ARGV[1])
if not raw then
	return 0
end
local entry = cjson.decode(raw)
entry['accessed_at'] = ARGV[2]
redis.call('HSET', KEYS[1], ARGV[1], cjson.encode(entry))
return 1
`)

func (r *CacheEntryRepository) TouchEntry(ctx context.Context, key string, accessedAt time.Time) error {
	err := touchScript.Run(ctx, r.client, []string{r.hash}, key, accessedAt.Format(time.RFC3339Nano)).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("failed to touch cache entry %s: %w", key, err)
	}
	return nil
}

func (r *CacheEntryRepository) DeleteEntry(ctx context.Context, key string) error {
	if err := r.client.HDel(ctx, r.hash, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

// ListEntries returns the entries sorted by key.
func (r *CacheEntryRepository) ListEntries(ctx context.Context) ([]domain.CacheEntry, error) {
	all, err := r.client.HGetAll(ctx, r.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	out := make([]domain.CacheEntry, 0, len(all))
	for k, raw := range all {
		e, err := decodeEntry(k, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *CacheEntryRepository) DeleteAll(ctx context.Context) error {
	if err := r.client.Del(ctx, r.hash).Err(); err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return nil
}

func (r *CacheEntryRepository) Location() string {
	return "redis hash " + r.hash
}
