package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// CacheEntryRepository persists the key -> artifact map of the report cache.
// Every implementation is the sole source of truth for its entries.
type CacheEntryRepository interface {
	// GetEntry returns apperrors.ErrNotFound when the key is absent.
	GetEntry(ctx context.Context, key string) (*domain.CacheEntry, error)
	UpsertEntry(ctx context.Context, entry domain.CacheEntry) error
	// TouchEntry updates the accessed timestamp; absent keys are ignored.
	TouchEntry(ctx context.Context, key string, accessedAt time.Time) error
	DeleteEntry(ctx context.Context, key string) error
	ListEntries(ctx context.Context) ([]domain.CacheEntry, error)
	DeleteAll(ctx context.Context) error
	// Location describes where entries live, for stats.
	Location() string
}
