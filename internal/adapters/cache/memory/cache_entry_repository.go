package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
)

// CacheEntryRepository keeps cache entries in a process-local map. Entries do
// not survive a restart.
type CacheEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

// NewCacheEntryRepository creates an empty in-memory cache entry repository.
func NewCacheEntryRepository() portsrepo.CacheEntryRepository {
	return &CacheEntryRepository{entries: make(map[string]domain.CacheEntry)}
}

func (r *CacheEntryRepository) GetEntry(_ context.Context, key string) (*domain.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *CacheEntryRepository) UpsertEntry(_ context.Context, entry domain.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Key] = entry
	return nil
}

func (r *CacheEntryRepository) TouchEntry(_ context.Context, key string, accessedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.AccessedAt = accessedAt
		r.entries[key] = e
	}
	return nil
}

func (r *CacheEntryRepository) DeleteEntry(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

// ListEntries returns the entries sorted by key.
func (r *CacheEntryRepository) ListEntries(_ context.Context) ([]domain.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CacheEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *CacheEntryRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]domain.CacheEntry)
	return nil
}

func (r *CacheEntryRepository) Location() string {
	return "memory"
}
