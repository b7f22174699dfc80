package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
)

// CacheEntryRepository persists the cache map as one JSON object keyed by
// cache key. Every mutation reads, modifies and rewrites the whole file.
// The mutex serializes writers of this process only; several processes
// sharing the file must coordinate themselves.
type CacheEntryRepository struct {
	mu   sync.Mutex
	path string
}

// NewCacheEntryRepository creates a repository backed by the JSON file at path.
// The file and its folder are created on first write.
func NewCacheEntryRepository(path string) portsrepo.CacheEntryRepository {
	return &CacheEntryRepository{path: path}
}

func (r *CacheEntryRepository) load() (map[string]domain.CacheEntry, error) {
	entries := make(map[string]domain.CacheEntry)
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache metadata %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cache metadata %s: %w", r.path, err)
	}
	for k, e := range entries {
		e.Key = k
		entries[k] = e
	}
	return entries, nil
}

// save writes to a temporary file first so readers never see a truncated map.
func (r *CacheEntryRepository) save(entries map[string]domain.CacheEntry) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache folder: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace cache metadata: %w", err)
	}
	return nil
}

func (r *CacheEntryRepository) mutate(fn func(map[string]domain.CacheEntry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load()
	if err != nil {
		return err
	}
	fn(entries)
	return r.save(entries)
}

func (r *CacheEntryRepository) GetEntry(_ context.Context, key string) (*domain.CacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	e, ok := entries[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *CacheEntryRepository) UpsertEntry(_ context.Context, entry domain.CacheEntry) error {
	return r.mutate(func(entries map[string]domain.CacheEntry) {
		entries[entry.Key] = entry
	})
}

func (r *CacheEntryRepository) TouchEntry(_ context.Context, key string, accessedAt time.Time) error {
	return r.mutate(func(entries map[string]domain.CacheEntry) {
		if e, ok := entries[key]; ok {
			e.AccessedAt = accessedAt
			entries[key] = e
		}
	})
}

func (r *CacheEntryRepository) DeleteEntry(_ context.Context, key string) error {
	return r.mutate(func(entries map[string]domain.CacheEntry) {
		delete(entries, key)
	})
}

// ListEntries returns the entries sorted by key.
func (r *CacheEntryRepository) ListEntries(_ context.Context) ([]domain.CacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.CacheEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *CacheEntryRepository) DeleteAll(_ context.Context) error {
	return r.mutate(func(entries map[string]domain.CacheEntry) {
		for k := range entries {
			delete(entries, k)
		}
	})
}

func (r *CacheEntryRepository) Location() string {
	return r.path
}
