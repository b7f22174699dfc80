package services

import (
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	renderer portssvc.ReportRenderer,
	layouts map[string]domain.LayoutProfile,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Cache = NewCacheService(
		repos.CacheEntry,
		cfg.SourcePaths(),
		WithCacheBackendName(cfg.CacheBackend),
		WithCacheCompanyNames(cfg.Companies),
	)
	container.Ledger = NewLedgerService()
	container.Balance = NewBalanceService()

	// The orchestrator depends on every other service
	container.Reporting = NewReportingService(
		container.Cache,
		repos.Source,
		container.Ledger,
		container.Balance,
		renderer,
		WithOutputDir(cfg.OutputDir),
		WithCompanyNames(cfg.Companies),
		WithLayoutProfiles(layouts),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CacheService     = (*cacheService)(nil)
	_ portssvc.LedgerService    = (*ledgerService)(nil)
	_ portssvc.BalanceService   = (*balanceService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
