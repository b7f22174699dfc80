package services

import (
	"context"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// CacheService maps report requests to cached artifacts.
type CacheService interface {
	// ResolveFileSet lists every source file whose change must invalidate the report.
	ResolveFileSet(req domain.ReportRequest) ([]string, error)

	// ComputeKey combines the request parameters with the signature of its file set.
	ComputeKey(ctx context.Context, req domain.ReportRequest) (domain.CacheKey, error)

	// Lookup returns the artifact path of key. A recorded artifact that no
	// longer exists is a miss and its entry is removed.
	Lookup(ctx context.Context, key domain.CacheKey) (string, bool, error)

	Store(ctx context.Context, key domain.CacheKey, artifactPath string) error
	Touch(ctx context.Context, key domain.CacheKey) error

	// Clear deletes the artifact and entry of key, or of every entry when key is nil.
	Clear(ctx context.Context, key *domain.CacheKey) error

	Stats(ctx context.Context) (domain.CacheStats, error)

	// Entries returns up to limit entries after pageToken, most recently accessed first.
	Entries(ctx context.Context, limit int, pageToken string) (*domain.CacheEntryPage, error)
}
