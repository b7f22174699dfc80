package services

import (
	"context"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// ReportingService drives report generation through the cache.
type ReportingService interface {
	// GenerateReport serves the cached artifact for req or builds, renders and caches it.
	GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.ReportArtifact, error)

	// PrintJournal renders the accounting slip of one document number. Not cached.
	PrintJournal(ctx context.Context, req domain.JournalRequest) (*domain.ReportArtifact, error)

	// ClearCache removes one entry, or every entry when key is nil.
	ClearCache(ctx context.Context, key *domain.CacheKey) error

	CacheStats(ctx context.Context) (domain.CacheStats, error)
	CacheEntries(ctx context.Context, limit int, pageToken string) (*domain.CacheEntryPage, error)
}

// ReportRenderer writes built reports to spreadsheet files.
type ReportRenderer interface {
	RenderGeneralLedger(ctx context.Context, path string, report *domain.GeneralLedgerReport, layout domain.Layout) error
	RenderPartnerLedger(ctx context.Context, path string, report *domain.PartnerLedgerReport, layout domain.Layout) error
	RenderGeneralBalance(ctx context.Context, path string, report *domain.GeneralBalanceReport) error
	RenderPartnerBalance(ctx context.Context, path string, report *domain.PartnerBalanceReport) error
	// RenderEmpty writes the minimal artifact of a report without transactions.
	RenderEmpty(ctx context.Context, path string, title string) error
	RenderDocumentJournal(ctx context.Context, path string, journal *domain.DocumentJournal) error
}
