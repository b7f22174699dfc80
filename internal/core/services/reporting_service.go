package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const unknownCompanyName = "Unknown"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	cache    portssvc.CacheService
	source   portsrepo.SourceRepository
	ledger   portssvc.LedgerService
	balance  portssvc.BalanceService
	renderer portssvc.ReportRenderer

	outputDir string
	companies map[string]string
	layouts   map[string]domain.LayoutProfile
	observer  func(domain.ReportState)

	flight singleflight.Group
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithOutputDir sets the folder generated artifacts are written to.
func WithOutputDir(dir string) ReportingServiceOption {
	return func(s *reportingService) {
		s.outputDir = dir
	}
}

// WithCompanyNames sets the company code -> display name lookup.
func WithCompanyNames(companies map[string]string) ReportingServiceOption {
	return func(s *reportingService) {
		s.companies = companies
	}
}

// WithLayoutProfiles sets the named layout profiles a request may select.
func WithLayoutProfiles(layouts map[string]domain.LayoutProfile) ReportingServiceOption {
	return func(s *reportingService) {
		s.layouts = layouts
	}
}

// WithStateObserver registers a callback invoked on every state transition.
func WithStateObserver(observer func(domain.ReportState)) ReportingServiceOption {
	return func(s *reportingService) {
		s.observer = observer
	}
}

// WithReportingClock overrides the clock used for artifact names and timestamps.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	cache portssvc.CacheService,
	source portsrepo.SourceRepository,
	ledger portssvc.LedgerService,
	balance portssvc.BalanceService,
	renderer portssvc.ReportRenderer,
	options ...ReportingServiceOption,
) portssvc.ReportingService {
	svc := &reportingService{
		cache:     cache,
		source:    source,
		ledger:    ledger,
		balance:   balance,
		renderer:  renderer,
		outputDir: "output",
		companies: map[string]string{},
		layouts:   map[string]domain.LayoutProfile{},
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// reportRun tracks the state of one GenerateReport call.
type reportRun struct {
	svc   *reportingService
	ctx   context.Context
	req   domain.ReportRequest
	state domain.ReportState
}

func (r *reportRun) advance(next domain.ReportState) error {
	if !r.state.CanTransition(next) {
		return fmt.Errorf("invalid report state transition %s -> %s", r.state, next)
	}
	r.svc.LogDebug(r.ctx, "Report state changed",
		slog.String("report_type", string(r.req.ReportType)),
		slog.String("from", string(r.state)),
		slog.String("to", string(next)))
	r.state = next
	if r.svc.observer != nil {
		r.svc.observer(next)
	}
	return nil
}

// fail moves the run to FAILED and attaches the report context to err.
func (r *reportRun) fail(err error) error {
	var reportErr *apperrors.ReportError
	if !errors.As(err, &reportErr) {
		reportErr = apperrors.NewReportError(string(r.req.ReportType), r.req.CompanyCode, r.req.Year, err)
	}
	if !r.state.IsTerminal() {
		r.svc.LogError(r.ctx, err, "Report generation failed",
			slog.String("report_type", string(r.req.ReportType)),
			slog.String("company_code", r.req.CompanyCode),
			slog.Int("year", r.req.Year),
			slog.String("state", string(r.state)))
		_ = r.advance(domain.StateFailed)
	}
	return reportErr
}

// GenerateReport serves a cached artifact or builds, renders and caches a new one.
// Concurrent misses on one key share a single build.
func (s *reportingService) GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.ReportArtifact, error) {
	req = req.Normalize()
	run := &reportRun{svc: s, ctx: ctx, req: req, state: domain.StateReceived}
	if s.observer != nil {
		s.observer(domain.StateReceived)
	}

	if err := req.Validate(); err != nil {
		if !req.ReportType.IsSupported() {
			return nil, run.fail(fmt.Errorf("%w: %v", apperrors.ErrNotImplemented, err))
		}
		return nil, run.fail(fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
	}
	if req.Layout != "" {
		if _, ok := s.layouts[req.Layout]; !ok {
			return nil, run.fail(fmt.Errorf("%w: unknown layout %q", apperrors.ErrValidation, req.Layout))
		}
	}

	key, err := s.cache.ComputeKey(ctx, req)
	if err != nil {
		return nil, run.fail(err)
	}
	if err := run.advance(domain.StateKeyComputed); err != nil {
		return nil, run.fail(err)
	}

	path, found, err := s.cache.Lookup(ctx, key)
	if err != nil {
		return nil, run.fail(err)
	}
	if found {
		if err := run.advance(domain.StateCacheHit); err != nil {
			return nil, run.fail(err)
		}
		return s.serveHit(run, key, path)
	}

	if err := run.advance(domain.StateCacheMiss); err != nil {
		return nil, run.fail(err)
	}

	v, err, _ := s.flight.Do(key.String(), func() (interface{}, error) {
		// A build of the same key may have completed between the lookup and the flight.
		if path, found, err := s.cache.Lookup(ctx, key); err != nil {
			return nil, err
		} else if found {
			if err := run.advance(domain.StateCacheHit); err != nil {
				return nil, err
			}
			return &domain.ReportArtifact{Path: path, FileName: filepath.Base(path), CacheKey: key.String()}, nil
		}
		return s.build(run, key)
	})
	if err != nil {
		return nil, run.fail(err)
	}
	shared := v.(*domain.ReportArtifact)

	switch run.state {
	case domain.StateCacheMiss:
		// Another request built the artifact.
		if err := run.advance(domain.StateCacheHit); err != nil {
			return nil, run.fail(err)
		}
		return s.serveHit(run, key, shared.Path)
	case domain.StateCacheHit:
		return s.serveHit(run, key, shared.Path)
	}

	if err := run.advance(domain.StateServed); err != nil {
		return nil, run.fail(err)
	}
	artifact := *shared
	return &artifact, nil
}

func (s *reportingService) serveHit(run *reportRun, key domain.CacheKey, path string) (*domain.ReportArtifact, error) {
	// The artifact exists, a lost access timestamp only affects listing order.
	if err := s.cache.Touch(run.ctx, key); err != nil {
		s.LogWarn(run.ctx, "Failed to record cache access",
			slog.String("cache_key", key.String()),
			slog.String("error", err.Error()))
	}
	if err := run.advance(domain.StateServed); err != nil {
		return nil, run.fail(err)
	}
	s.LogInfo(run.ctx, "Report served from cache",
		slog.String("cache_key", key.String()),
		slog.String("artifact", path))
	return &domain.ReportArtifact{
		Path:      path,
		FileName:  filepath.Base(path),
		CacheKey:  key.String(),
		CacheHit:  true,
		CreatedAt: s.Now(),
	}, nil
}

// build runs the miss path: load sources, build ledgers or balances, render and store.
// The artifact file is removed when any step fails.
func (s *reportingService) build(run *reportRun, key domain.CacheKey) (*domain.ReportArtifact, error) {
	ctx, req := run.ctx, run.req
	if err := run.advance(domain.StateBuilding); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", s.outputDir, err)
	}
	fileName := fmt.Sprintf("%s_%s_%d_%s_%s.xlsx",
		req.ReportType, req.CompanyCode, req.Year,
		s.Now().Format(domain.ReportFileTimestampLayout), uuid.NewString()[:8])
	path := filepath.Join(s.outputDir, fileName)

	artifact, err := s.buildInto(run, path)
	if err != nil {
		removeArtifact(path)
		return nil, err
	}

	if err := s.cache.Store(ctx, key, path); err != nil {
		removeArtifact(path)
		return nil, err
	}
	if err := run.advance(domain.StateCached); err != nil {
		return nil, err
	}

	artifact.Path = path
	artifact.FileName = fileName
	artifact.CacheKey = key.String()
	artifact.CreatedAt = s.Now()
	s.LogInfo(ctx, "Report generated",
		slog.String("cache_key", key.String()),
		slog.String("artifact", path),
		slog.Bool("empty", artifact.Empty),
		slog.Int("warnings", len(artifact.Warnings)))
	return artifact, nil
}

func (s *reportingService) buildInto(run *reportRun, path string) (*domain.ReportArtifact, error) {
	ctx, req := run.ctx, run.req
	year := req.YearString()
	period := req.Period()
	title := req.ReportType.Title()

	openings, err := s.source.LoadOpeningBalances(ctx, req.CompanyCode, req.Year, req.PartnerType)
	if err != nil {
		return nil, fmt.Errorf("failed to load opening balance: %w", err)
	}

	var bankAccounts []string
	if req.Bank && req.PartnerType == domain.PartnerNone {
		if bankAccounts, err = s.source.LoadBankAccounts(ctx); err != nil {
			return nil, fmt.Errorf("failed to load bank accounts: %w", err)
		}
		if bankAccounts == nil {
			bankAccounts = []string{}
		}
	}

	txns, warnings, err := s.source.LoadTransactions(ctx, portsrepo.TransactionQuery{
		CompanyCode:  req.CompanyCode,
		Year:         req.Year,
		Period:       period,
		PartnerType:  req.PartnerType,
		BankAccounts: bankAccounts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	companyName := s.companyName(req.CompanyName, req.CompanyCode, txns)
	for _, w := range warnings {
		s.LogWarn(ctx, "Source column coerced",
			slog.String("file", w.File),
			slog.String("column", w.Column),
			slog.String("expected", w.Expected),
			slog.Bool("coerced", w.Coerced))
	}

	var chart []domain.ChartEntry
	if req.ReportType.IsBalance() && req.PartnerType == domain.PartnerNone {
		chart, err = s.source.LoadChartOfAccounts(ctx)
		if errors.Is(err, apperrors.ErrMissingSourceFile) {
			s.LogWarn(ctx, "Chart of accounts missing, group labels fall back to prefixes")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load chart of accounts: %w", err)
		}
	}

	artifact := &domain.ReportArtifact{Warnings: warnings}
	if err := run.advance(domain.StateAggregating); err != nil {
		return nil, err
	}

	if len(txns) == 0 {
		artifact.Empty = true
		if err := run.advance(domain.StateRendering); err != nil {
			return nil, err
		}
		if err := s.renderer.RenderEmpty(ctx, path, title); err != nil {
			return nil, fmt.Errorf("failed to render empty report: %w", err)
		}
		s.LogInfo(ctx, "No transactions for the period, empty report written",
			slog.String("company_code", req.CompanyCode),
			slog.String("year", year))
		return artifact, nil
	}

	var render func() error
	switch req.ReportType {
	case domain.ReportGeneralLedger, domain.ReportBankLedger:
		report, err := s.ledger.BuildGeneralLedger(ctx, domain.GeneralLedgerInput{
			Title: title, CompanyCode: req.CompanyCode, CompanyName: companyName, Period: period,
			Transactions: txns, Openings: openings, BankAccounts: bankAccounts,
		})
		if err != nil {
			return nil, err
		}
		layout := s.layoutFor(req.Layout, false)
		render = func() error { return s.renderer.RenderGeneralLedger(ctx, path, report, layout) }

	case domain.ReportVendorLedger, domain.ReportCustomerLedger:
		report, err := s.ledger.BuildPartnerLedger(ctx, domain.PartnerLedgerInput{
			Title: title, CompanyCode: req.CompanyCode, CompanyName: companyName, PartnerType: req.PartnerType,
			Period: period, Transactions: txns, Openings: openings,
		})
		if err != nil {
			return nil, err
		}
		layout := s.layoutFor(req.Layout, true)
		render = func() error { return s.renderer.RenderPartnerLedger(ctx, path, report, layout) }

	case domain.ReportGeneralBalance, domain.ReportBankBalance:
		report, err := s.balance.BuildGeneralBalance(ctx, domain.GeneralBalanceInput{
			Title: title, CompanyCode: req.CompanyCode, CompanyName: companyName, Period: period,
			Transactions: txns, Openings: openings, Chart: chart, BankAccounts: bankAccounts,
		})
		if err != nil {
			return nil, err
		}
		render = func() error { return s.renderer.RenderGeneralBalance(ctx, path, report) }

	case domain.ReportVendorBalance, domain.ReportCustomerBalance:
		report, err := s.balance.BuildPartnerBalance(ctx, domain.PartnerBalanceInput{
			Title: title, CompanyCode: req.CompanyCode, CompanyName: companyName, PartnerType: req.PartnerType,
			Period: period, Transactions: txns, Openings: openings,
		})
		if err != nil {
			return nil, err
		}
		render = func() error { return s.renderer.RenderPartnerBalance(ctx, path, report) }

	default:
		return nil, fmt.Errorf("report type %q: %w", req.ReportType, apperrors.ErrNotImplemented)
	}

	if err := run.advance(domain.StateRendering); err != nil {
		return nil, err
	}
	if err := render(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return artifact, nil
}

// companyName prefers an explicit name, then the configured mapping, then the
// "Company code Name" column of the extracts.
func (s *reportingService) companyName(explicit, code string, txns []domain.TransactionRecord) string {
	if explicit != "" {
		return explicit
	}
	if name, ok := s.companies[code]; ok {
		return name
	}
	for _, t := range txns {
		if name := strings.TrimSpace(t.CompanyName); name != "" {
			return name
		}
	}
	return unknownCompanyName
}

func (s *reportingService) layoutFor(name string, partner bool) domain.Layout {
	profile, ok := s.layouts[name]
	switch {
	case ok && partner && len(profile.PartnerLedger.Columns) > 0:
		return profile.PartnerLedger
	case ok && !partner && len(profile.GeneralLedger.Columns) > 0:
		return profile.GeneralLedger
	case partner:
		return domain.DefaultPartnerLedgerLayout()
	default:
		return domain.DefaultGeneralLedgerLayout()
	}
}

func removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to remove partial artifact", slog.String("artifact", path), slog.String("error", err.Error()))
	}
}

// PrintJournal renders the accounting slip of one document number over the whole fiscal year.
func (s *reportingService) PrintJournal(ctx context.Context, req domain.JournalRequest) (*domain.ReportArtifact, error) {
	req.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	if req.CompanyCode == "" || req.DocumentNumber == "" || req.Year < 1900 || req.Year > 9999 {
		return nil, fmt.Errorf("%w: company code, year and document number are required", apperrors.ErrValidation)
	}
	full := domain.ReportRequest{Year: req.Year, StartMonth: 1, EndMonth: 12}
	lines, _, err := s.source.LoadTransactions(ctx, portsrepo.TransactionQuery{
		CompanyCode:    req.CompanyCode,
		Year:           req.Year,
		Period:         full.Period(),
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return nil, apperrors.NewReportError("print_journal", req.CompanyCode, req.Year, fmt.Errorf("failed to load transactions: %w", err))
	}
	req.CompanyName = s.companyName(req.CompanyName, req.CompanyCode, lines)

	journal, err := s.ledger.BuildDocumentJournal(ctx, req, lines)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", s.outputDir, err)
	}
	fileName := fmt.Sprintf("fiche_comptable_%s_%s_%s.xlsx", req.CompanyCode, req.DocumentNumber, uuid.NewString()[:8])
	path := filepath.Join(s.outputDir, fileName)
	if err := s.renderer.RenderDocumentJournal(ctx, path, journal); err != nil {
		removeArtifact(path)
		s.LogError(ctx, err, "Failed to render document journal", slog.String("document_number", req.DocumentNumber))
		return nil, apperrors.NewReportError("print_journal", req.CompanyCode, req.Year, fmt.Errorf("failed to render journal: %w", err))
	}

	s.LogInfo(ctx, "Document journal printed",
		slog.String("company_code", req.CompanyCode),
		slog.String("document_number", req.DocumentNumber),
		slog.Int("lines", len(journal.Lines)))
	return &domain.ReportArtifact{Path: path, FileName: fileName, CreatedAt: s.Now()}, nil
}

// ClearCache removes one entry, or every entry when key is nil.
func (s *reportingService) ClearCache(ctx context.Context, key *domain.CacheKey) error {
	return s.cache.Clear(ctx, key)
}

// CacheStats summarizes the cache content.
func (s *reportingService) CacheStats(ctx context.Context) (domain.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// CacheEntries pages through the cached artifacts.
func (s *reportingService) CacheEntries(ctx context.Context, limit int, pageToken string) (*domain.CacheEntryPage, error) {
	return s.cache.Entries(ctx, limit, pageToken)
}
