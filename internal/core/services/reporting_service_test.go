package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/memory"
	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SourceRepository ---
type MockSourceRepository struct {
	mock.Mock
}

func (m *MockSourceRepository) LoadTransactions(ctx context.Context, q portsrepo.TransactionQuery) ([]domain.TransactionRecord, []domain.SchemaWarning, error) {
	args := m.Called(ctx, q)
	var txns []domain.TransactionRecord
	if v := args.Get(0); v != nil {
		txns = v.([]domain.TransactionRecord)
	}
	var warnings []domain.SchemaWarning
	if v := args.Get(1); v != nil {
		warnings = v.([]domain.SchemaWarning)
	}
	return txns, warnings, args.Error(2)
}

func (m *MockSourceRepository) LoadOpeningBalances(ctx context.Context, companyCode string, year int, partner domain.PartnerType) ([]domain.OpeningBalanceEntry, error) {
	args := m.Called(ctx, companyCode, year, partner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OpeningBalanceEntry), args.Error(1)
}

func (m *MockSourceRepository) LoadChartOfAccounts(ctx context.Context) ([]domain.ChartEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartEntry), args.Error(1)
}

func (m *MockSourceRepository) LoadBankAccounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock ReportRenderer ---
type MockReportRenderer struct {
	mock.Mock
}

func (m *MockReportRenderer) RenderGeneralLedger(ctx context.Context, path string, report *domain.GeneralLedgerReport, layout domain.Layout) error {
	return m.Called(ctx, path, report, layout).Error(0)
}

func (m *MockReportRenderer) RenderPartnerLedger(ctx context.Context, path string, report *domain.PartnerLedgerReport, layout domain.Layout) error {
	return m.Called(ctx, path, report, layout).Error(0)
}

func (m *MockReportRenderer) RenderGeneralBalance(ctx context.Context, path string, report *domain.GeneralBalanceReport) error {
	return m.Called(ctx, path, report).Error(0)
}

func (m *MockReportRenderer) RenderPartnerBalance(ctx context.Context, path string, report *domain.PartnerBalanceReport) error {
	return m.Called(ctx, path, report).Error(0)
}

func (m *MockReportRenderer) RenderEmpty(ctx context.Context, path string, title string) error {
	return m.Called(ctx, path, title).Error(0)
}

func (m *MockReportRenderer) RenderDocumentJournal(ctx context.Context, path string, journal *domain.DocumentJournal) error {
	return m.Called(ctx, path, journal).Error(0)
}

// writeArtifact makes a mocked render call produce a file at its path argument.
func writeArtifact(args mock.Arguments) {
	_ = os.WriteFile(args.String(1), []byte("PK"), 0o644)
}

type stateRecorder struct {
	mu     sync.Mutex
	states []domain.ReportState
}

func (r *stateRecorder) record(s domain.ReportState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) take() []domain.ReportState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.states
	r.states = nil
	return out
}

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	root      string
	outputDir string
	source    *MockSourceRepository
	renderer  *MockReportRenderer
	cache     portssvc.CacheService
	states    *stateRecorder
	service   portssvc.ReportingService
	req       domain.ReportRequest
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.outputDir = filepath.Join(suite.root, "output")
	paths := sourceTree(suite.root)
	writeFile(suite.T(), filepath.Join(paths.TransactionsDir, "C1", "2024", "jan.xlsx"), "jan")
	writeFile(suite.T(), paths.OpeningBalanceFileFor(domain.PartnerNone, "C1", "2024"), "ob")

	suite.source = new(MockSourceRepository)
	suite.renderer = new(MockReportRenderer)
	suite.cache = services.NewCacheService(memory.NewCacheEntryRepository(), paths)
	suite.states = &stateRecorder{}
	suite.service = services.NewReportingService(
		suite.cache,
		suite.source,
		services.NewLedgerService(),
		services.NewBalanceService(),
		suite.renderer,
		services.WithOutputDir(suite.outputDir),
		services.WithCompanyNames(map[string]string{"C1": "ACME CI"}),
		services.WithLayoutProfiles(map[string]domain.LayoutProfile{
			"bu1": {Name: "bu1", GeneralLedger: domain.Layout{Name: "bu1", Columns: []domain.LayoutColumn{{Field: domain.FieldDate, Label: "Date", Included: true}}}},
		}),
		services.WithStateObserver(suite.states.record),
	)
	suite.req = domain.ReportRequest{ReportType: domain.ReportGeneralLedger, CompanyCode: "C1", Year: 2024, StartMonth: 1, EndMonth: 12}
}

func (suite *ReportingServiceTestSuite) openings() []domain.OpeningBalanceEntry {
	return []domain.OpeningBalanceEntry{
		domain.NewOpeningBalanceEntry("C1", "2024", "601", "Achats", "I601", "Purchases", decimal.NewFromInt(1000), decimal.Zero),
	}
}

func (suite *ReportingServiceTestSuite) transactions() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		txn("601", day(time.January, 10), "500", 0),
		txn("601", day(time.January, 20), "-200", 1),
	}
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_MissThenHit() {
	ctx := context.Background()
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.MatchedBy(func(q portsrepo.TransactionQuery) bool {
		return q.CompanyCode == "C1" && q.Year == 2024 && q.BankAccounts == nil && q.Period == suite.req.Period()
	})).Return(suite.transactions(), nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(r *domain.GeneralLedgerReport) bool {
			return r.CompanyName == "ACME CI" && len(r.Ledgers) == 1 && r.Ledgers[0].ClosingBalance.Equal(decimal.NewFromInt(300))
		}), domain.DefaultGeneralLedgerLayout()).Run(writeArtifact).Return(nil).Once()

	first, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)
	suite.False(first.CacheHit)
	suite.FileExists(first.Path)
	suite.Equal([]domain.ReportState{
		domain.StateReceived, domain.StateKeyComputed, domain.StateCacheMiss, domain.StateBuilding,
		domain.StateAggregating, domain.StateRendering, domain.StateCached, domain.StateServed,
	}, suite.states.take())

	second, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)
	suite.True(second.CacheHit)
	suite.Equal(first.Path, second.Path)
	suite.Equal(first.CacheKey, second.CacheKey)
	suite.Equal([]domain.ReportState{
		domain.StateReceived, domain.StateKeyComputed, domain.StateCacheHit, domain.StateServed,
	}, suite.states.take())

	suite.source.AssertExpectations(suite.T())
	suite.renderer.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_EmptyResultIsCached() {
	ctx := context.Background()
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return([]domain.TransactionRecord{}, nil, nil).Once()
	suite.renderer.On("RenderEmpty", mock.Anything, mock.AnythingOfType("string"), "GRAND LIVRE DES COMPTES").Run(writeArtifact).Return(nil).Once()

	first, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)
	suite.True(first.Empty)

	second, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)
	suite.True(second.CacheHit)

	stats, err := suite.service.CacheStats(ctx)
	suite.Require().NoError(err)
	suite.Equal(1, stats.EntryCount)
	suite.renderer.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_MissingOpeningBalanceFails() {
	ctx := context.Background()
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).
		Return(nil, apperrors.ErrMissingSourceFile).Once()

	artifact, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().Error(err)
	suite.Nil(artifact)
	suite.ErrorIs(err, apperrors.ErrMissingSourceFile)

	var reportErr *apperrors.ReportError
	suite.Require().True(errors.As(err, &reportErr))
	suite.Equal("gl_compta_gen", reportErr.ReportType)
	suite.Equal("C1", reportErr.CompanyCode)
	suite.Equal(2024, reportErr.Year)

	states := suite.states.take()
	suite.Equal(domain.StateFailed, states[len(states)-1])

	stats, err := suite.service.CacheStats(ctx)
	suite.Require().NoError(err)
	suite.Equal(0, stats.EntryCount)
	files, _ := os.ReadDir(suite.outputDir)
	suite.Empty(files)
	suite.renderer.AssertNotCalled(suite.T(), "RenderGeneralLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_RenderFailureLeavesNothingBehind() {
	ctx := context.Background()
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return(suite.transactions(), nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(writeArtifact).Return(errors.New("disk full")).Once()

	_, err := suite.service.GenerateReport(ctx, suite.req)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "disk full")

	files, _ := os.ReadDir(suite.outputDir)
	suite.Empty(files, "the partial artifact is removed")
	stats, _ := suite.service.CacheStats(ctx)
	suite.Equal(0, stats.EntryCount)
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_ConcurrentMissesBuildOnce() {
	ctx := context.Background()
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return(suite.transactions(), nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			time.Sleep(50 * time.Millisecond)
			writeArtifact(args)
		}).Return(nil).Once()

	const callers = 8
	var wg sync.WaitGroup
	paths := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			artifact, err := suite.service.GenerateReport(ctx, suite.req)
			errs[i] = err
			if artifact != nil {
				paths[i] = artifact.Path
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		suite.Require().NoError(errs[i])
		suite.Equal(paths[0], paths[i])
	}
	suite.renderer.AssertNumberOfCalls(suite.T(), "RenderGeneralLedger", 1)
	suite.source.AssertNumberOfCalls(suite.T(), "LoadTransactions", 1)
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_InvalidRequests() {
	ctx := context.Background()

	bad := suite.req
	bad.StartMonth, bad.EndMonth = 6, 3
	_, err := suite.service.GenerateReport(ctx, bad)
	suite.ErrorIs(err, apperrors.ErrValidation)

	unknown := suite.req
	unknown.ReportType = "grand_journal"
	_, err = suite.service.GenerateReport(ctx, unknown)
	suite.ErrorIs(err, apperrors.ErrNotImplemented)

	layout := suite.req
	layout.Layout = "nope"
	_, err = suite.service.GenerateReport(ctx, layout)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.source.AssertNotCalled(suite.T(), "LoadOpeningBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_LayoutProfileIsApplied() {
	ctx := context.Background()
	req := suite.req
	req.Layout = "bu1"
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return(suite.transactions(), nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(l domain.Layout) bool { return l.Name == "bu1" && len(l.Columns) == 1 })).
		Run(writeArtifact).Return(nil).Once()

	artifact, err := suite.service.GenerateReport(ctx, req)
	suite.Require().NoError(err)
	suite.Contains(artifact.CacheKey, ":bu1:")
	suite.renderer.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_BankBalance() {
	ctx := context.Background()
	req := suite.req
	req.ReportType = domain.ReportBankBalance
	warnings := []domain.SchemaWarning{{File: "jan.xlsx", Column: "Amount in local currency", Expected: "float64", Coerced: true}}

	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadBankAccounts", mock.Anything).Return([]string{"521"}, nil).Once()
	suite.source.On("LoadChartOfAccounts", mock.Anything).Return(nil, apperrors.ErrMissingSourceFile).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.MatchedBy(func(q portsrepo.TransactionQuery) bool {
		return len(q.BankAccounts) == 1 && q.BankAccounts[0] == "521"
	})).Return([]domain.TransactionRecord{txn("521", day(time.March, 3), "10", 0)}, warnings, nil).Once()
	suite.renderer.On("RenderGeneralBalance", mock.Anything, mock.Anything,
		mock.MatchedBy(func(r *domain.GeneralBalanceReport) bool {
			return r.Title == "BALANCE DES COMPTES BANCAIRES" && len(r.Totals) == 3
		})).Run(writeArtifact).Return(nil).Once()

	artifact, err := suite.service.GenerateReport(ctx, req)
	suite.Require().NoError(err)
	suite.Equal(warnings, artifact.Warnings)
	suite.source.AssertExpectations(suite.T())
	suite.renderer.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestPrintJournal() {
	ctx := context.Background()
	line := txn("601", day(time.April, 2), "75", 0)
	line.DocumentNumber = "1900000001"

	suite.source.On("LoadTransactions", mock.Anything, mock.MatchedBy(func(q portsrepo.TransactionQuery) bool {
		return q.DocumentNumber == "1900000001" && q.Period.Start.Month() == time.January && q.Period.End.Month() == time.December
	})).Return([]domain.TransactionRecord{line}, nil, nil).Once()
	suite.renderer.On("RenderDocumentJournal", mock.Anything, mock.Anything,
		mock.MatchedBy(func(j *domain.DocumentJournal) bool { return j.CompanyName == "ACME CI" && len(j.Lines) == 1 })).
		Run(writeArtifact).Return(nil).Once()

	artifact, err := suite.service.PrintJournal(ctx, domain.JournalRequest{CompanyCode: "C1", Year: 2024, DocumentNumber: " 1900000001 "})
	suite.Require().NoError(err)
	suite.FileExists(artifact.Path)
	suite.False(artifact.CacheHit)

	stats, _ := suite.service.CacheStats(ctx)
	suite.Equal(0, stats.EntryCount, "journals are not cached")
}

func (suite *ReportingServiceTestSuite) TestPrintJournal_NoMatch() {
	ctx := context.Background()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return([]domain.TransactionRecord{}, nil, nil).Once()

	_, err := suite.service.PrintJournal(ctx, domain.JournalRequest{CompanyCode: "C1", Year: 2024, DocumentNumber: "404"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.PrintJournal(ctx, domain.JournalRequest{CompanyCode: "C1", Year: 2024})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// touchFailingRepo loses every access timestamp update.
type touchFailingRepo struct {
	portsrepo.CacheEntryRepository
}

func (touchFailingRepo) TouchEntry(context.Context, string, time.Time) error {
	return errors.New("connection reset")
}

func (suite *ReportingServiceTestSuite) serviceWith(cache portssvc.CacheService, companies map[string]string) portssvc.ReportingService {
	return services.NewReportingService(
		cache,
		suite.source,
		services.NewLedgerService(),
		services.NewBalanceService(),
		suite.renderer,
		services.WithOutputDir(suite.outputDir),
		services.WithCompanyNames(companies),
	)
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_CompanyNameFromExtract() {
	ctx := context.Background()
	txns := suite.transactions()
	for i := range txns {
		txns[i].CompanyName = "SECO CI"
	}
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return(txns, nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(r *domain.GeneralLedgerReport) bool { return r.CompanyName == "SECO CI" }),
		domain.DefaultGeneralLedgerLayout()).Run(writeArtifact).Return(nil).Once()

	service := suite.serviceWith(suite.cache, map[string]string{})
	_, err := service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)
	suite.renderer.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGenerateReport_HitSurvivesTouchFailure() {
	ctx := context.Background()
	cache := services.NewCacheService(touchFailingRepo{memory.NewCacheEntryRepository()}, sourceTree(suite.root))
	suite.source.On("LoadOpeningBalances", mock.Anything, "C1", 2024, domain.PartnerNone).Return(suite.openings(), nil).Once()
	suite.source.On("LoadTransactions", mock.Anything, mock.Anything).Return(suite.transactions(), nil, nil).Once()
	suite.renderer.On("RenderGeneralLedger", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
		Run(writeArtifact).Return(nil).Once()

	service := suite.serviceWith(cache, map[string]string{"C1": "ACME CI"})
	first, err := service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err)

	second, err := service.GenerateReport(ctx, suite.req)
	suite.Require().NoError(err, "a failed access update does not fail a hit")
	suite.True(second.CacheHit)
	suite.Equal(first.Path, second.Path)
	suite.renderer.AssertExpectations(suite.T())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func TestReportStateTransitions(t *testing.T) {
	assert.True(t, domain.StateCacheMiss.CanTransition(domain.StateBuilding))
	assert.True(t, domain.StateRendering.CanTransition(domain.StateFailed))
	assert.False(t, domain.StateServed.CanTransition(domain.StateFailed))
	assert.False(t, domain.StateFailed.CanTransition(domain.StateReceived))
	assert.False(t, domain.StateKeyComputed.CanTransition(domain.StateBuilding))
}
