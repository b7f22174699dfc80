package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/pagination"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/signature"
)

// MaxEntriesPageSize bounds one page of Entries.
const MaxEntriesPageSize = 100

// cacheService implements the CacheService interface on top of a swappable entry repository.
type cacheService struct {
	BaseService
	repo    portsrepo.CacheEntryRepository
	paths     domain.SourcePaths
	backend   string
	companies map[string]string
}

// CacheServiceOption is a functional option for configuring the cache service
type CacheServiceOption func(*cacheService)

// WithCacheClock overrides the clock used for entry timestamps.
func WithCacheClock(now func() time.Time) CacheServiceOption {
	return func(s *cacheService) {
		s.now = now
	}
}

// WithCacheBackendName sets the backend name reported by Stats.
func WithCacheBackendName(name string) CacheServiceOption {
	return func(s *cacheService) {
		s.backend = name
	}
}

// WithCacheCompanyNames sets the company display names printed in report titles.
// The name of the requested company is part of every cache key.
func WithCacheCompanyNames(companies map[string]string) CacheServiceOption {
	return func(s *cacheService) {
		s.companies = companies
	}
}

// NewCacheService creates a new cache service with the provided options
func NewCacheService(repo portsrepo.CacheEntryRepository, paths domain.SourcePaths, options ...CacheServiceOption) portssvc.CacheService {
	svc := &cacheService{
		repo:  repo,
		paths: paths,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure cacheService implements the CacheService interface
var _ portssvc.CacheService = (*cacheService)(nil)

// ResolveFileSet lists every source file the report depends on, sorted and de-duplicated.
func (s *cacheService) ResolveFileSet(req domain.ReportRequest) ([]string, error) {
	req = req.Normalize()
	if !req.ReportType.IsSupported() {
		return nil, fmt.Errorf("report type %q: %w", req.ReportType, apperrors.ErrNotImplemented)
	}

	year := req.YearString()
	extracts, err := filepath.Glob(filepath.Join(s.paths.TransactionsDirFor(req.PartnerType, req.CompanyCode, year), "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracts for %s/%s: %w", req.CompanyCode, year, err)
	}

	files := append([]string{}, extracts...)
	files = append(files, s.paths.OpeningBalanceFileFor(req.PartnerType, req.CompanyCode, year))

	if req.PartnerType == domain.PartnerNone && req.Bank {
		files = append(files, s.paths.BankAccountsPath)
	}
	if req.ReportType.IsBalance() {
		files = append(files, s.paths.ChartOfAccountsPath)
	}
	if req.Layout != "" && s.paths.LayoutFile != "" {
		files = append(files, s.paths.LayoutFile)
	}
	if s.paths.CompaniesFile != "" {
		files = append(files, s.paths.CompaniesFile)
	}

	sort.Strings(files)
	unique := files[:0]
	for i, f := range files {
		if i == 0 || f != files[i-1] {
			unique = append(unique, f)
		}
	}
	return unique, nil
}

// ComputeKey combines the request parameters with the signature of its file set
// and of the configured company name, which ends up in the workbook titles.
func (s *cacheService) ComputeKey(ctx context.Context, req domain.ReportRequest) (domain.CacheKey, error) {
	req = req.Normalize()
	files, err := s.ResolveFileSet(req)
	if err != nil {
		return domain.CacheKey{}, err
	}

	key := domain.CacheKey{
		ReportType:  req.ReportType,
		CompanyCode: req.CompanyCode,
		Year:        req.Year,
		StartMonth:  req.StartMonth,
		EndMonth:    req.EndMonth,
		PartnerType: req.PartnerType,
		Bank:        req.Bank,
		Layout:      req.Layout,
		Signature:   signature.Combined(files, "company_name="+s.companyName(req)),
	}
	s.LogDebug(ctx, "Cache key computed", slog.String("cache_key", key.String()), slog.Int("file_count", len(files)))
	return key, nil
}

func (s *cacheService) companyName(req domain.ReportRequest) string {
	if req.CompanyName != "" {
		return req.CompanyName
	}
	return s.companies[req.CompanyCode]
}

// Lookup returns the artifact path recorded for key, removing entries whose artifact is gone.
func (s *cacheService) Lookup(ctx context.Context, key domain.CacheKey) (string, bool, error) {
	entry, err := s.repo.GetEntry(ctx, key.String())
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read cache entry", slog.String("cache_key", key.String()))
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if _, err := os.Stat(entry.ArtifactPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat cached artifact %s: %w", entry.ArtifactPath, err)
		}
		s.LogWarn(ctx, "Cached artifact vanished, dropping entry",
			slog.String("cache_key", key.String()),
			slog.String("artifact", entry.ArtifactPath))
		if err := s.repo.DeleteEntry(ctx, key.String()); err != nil {
			return "", false, fmt.Errorf("failed to drop stale cache entry: %w", err)
		}
		return "", false, nil
	}

	return entry.ArtifactPath, true, nil
}

// Store upserts the entry of key with fresh timestamps.
func (s *cacheService) Store(ctx context.Context, key domain.CacheKey, artifactPath string) error {
	now := s.Now()
	entry := domain.CacheEntry{
		Key:          key.String(),
		ArtifactPath: artifactPath,
		CreatedAt:    now,
		AccessedAt:   now,
	}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to store cache entry", slog.String("cache_key", entry.Key))
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	s.LogInfo(ctx, "Report cached", slog.String("cache_key", entry.Key), slog.String("artifact", artifactPath))
	return nil
}

// Touch updates the accessed timestamp of key.
func (s *cacheService) Touch(ctx context.Context, key domain.CacheKey) error {
	if err := s.repo.TouchEntry(ctx, key.String(), s.Now()); err != nil {
		return fmt.Errorf("failed to touch cache entry: %w", err)
	}
	return nil
}

// Clear deletes the artifact file(s) and entry/entries.
func (s *cacheService) Clear(ctx context.Context, key *domain.CacheKey) error {
	if key != nil {
		entry, err := s.repo.GetEntry(ctx, key.String())
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read cache entry: %w", err)
		}
		s.removeArtifact(ctx, entry.ArtifactPath)
		if err := s.repo.DeleteEntry(ctx, entry.Key); err != nil {
			return fmt.Errorf("failed to delete cache entry: %w", err)
		}
		s.LogInfo(ctx, "Cache entry cleared", slog.String("cache_key", entry.Key))
		return nil
	}

	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}
	for _, e := range entries {
		s.removeArtifact(ctx, e.ArtifactPath)
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}
	s.LogInfo(ctx, "Cache purged", slog.Int("entries", len(entries)))
	return nil
}

func (s *cacheService) removeArtifact(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.LogWarn(ctx, "Failed to remove cached artifact", slog.String("artifact", path), slog.String("error", err.Error()))
	}
}

// Stats counts entries and the bytes of artifacts that still exist.
func (s *cacheService) Stats(ctx context.Context) (domain.CacheStats, error) {
	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("failed to list cache entries: %w", err)
	}

	stats := domain.CacheStats{
		EntryCount: len(entries),
		Location:   s.repo.Location(),
		Backend:    s.backend,
	}
	for _, e := range entries {
		if info, err := os.Stat(e.ArtifactPath); err == nil {
			stats.TotalBytes += info.Size()
		}
	}
	return stats, nil
}

// Entries pages through the cache map by (accessed desc, key asc). The cursor
// is the position of the last returned entry, so entries touched between two
// calls may move ahead of it and be skipped.
func (s *cacheService) Entries(ctx context.Context, limit int, pageToken string) (*domain.CacheEntryPage, error) {
	if limit <= 0 || limit > MaxEntriesPageSize {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", apperrors.ErrValidation, MaxEntriesPageSize)
	}
	var (
		afterAt  time.Time
		afterKey string
	)
	if pageToken != "" {
		var err error
		if afterAt, afterKey, err = pagination.DecodeToken(pageToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	entries, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].AccessedAt.Equal(entries[j].AccessedAt) {
			return entries[i].AccessedAt.After(entries[j].AccessedAt)
		}
		return entries[i].Key < entries[j].Key
	})

	start := 0
	if pageToken != "" {
		start = sort.Search(len(entries), func(i int) bool {
			e := entries[i]
			return e.AccessedAt.Before(afterAt) || (e.AccessedAt.Equal(afterAt) && e.Key > afterKey)
		})
	}
	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}

	page := &domain.CacheEntryPage{Entries: entries[start:end]}
	if end < len(entries) {
		last := entries[end-1]
		page.NextPageToken = pagination.EncodeToken(last.AccessedAt, last.Key)
	}
	s.LogDebug(ctx, "Cache entries listed", slog.Int("returned", len(page.Entries)), slog.Int("total", len(entries)))
	return page, nil
}
