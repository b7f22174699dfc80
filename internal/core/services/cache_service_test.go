package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/memory"
	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/core/services"
	"github.com/stretchr/testify/suite"
)

// sourceTree lays out the source folders of company C1 for 2024 under root.
func sourceTree(root string) domain.SourcePaths {
	return domain.SourcePaths{
		TransactionsDir:              filepath.Join(root, "ALL_TRANSACTIONS"),
		VendorTransactionsDir:        filepath.Join(root, "ALL_VENDORS_TRANSACTIONS"),
		CustomerTransactionsDir:      filepath.Join(root, "ALL_CUSTOMERS_TRANSACTIONS"),
		InitialBalancePrefix:         filepath.Join(root, "INITIAL BALANCE", "Initial Balance"),
		VendorInitialBalancePrefix:   filepath.Join(root, "VENDORS INITIAL BALANCE", "Initial Balance"),
		CustomerInitialBalancePrefix: filepath.Join(root, "CUSTOMERS INITIAL BALANCE", "Initial Balance"),
		ChartOfAccountsPath:          filepath.Join(root, "STATIC", "Plan_Comptable_OHADA.xlsx"),
		BankAccountsPath:             filepath.Join(root, "bnk_gls.txt"),
		LayoutFile:                   filepath.Join(root, "layouts.json"),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type CacheServiceTestSuite struct {
	suite.Suite
	root    string
	paths   domain.SourcePaths
	repo    portsrepo.CacheEntryRepository
	service portssvc.CacheService
	now     time.Time
	req     domain.ReportRequest
}

func (suite *CacheServiceTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.paths = sourceTree(suite.root)
	suite.repo = memory.NewCacheEntryRepository()
	suite.now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewCacheService(suite.repo, suite.paths,
		services.WithCacheClock(func() time.Time { return suite.now }),
		services.WithCacheBackendName("memory"))
	suite.req = domain.ReportRequest{ReportType: domain.ReportGeneralLedger, CompanyCode: "C1", Year: 2024, StartMonth: 1, EndMonth: 12}

	writeFile(suite.T(), filepath.Join(suite.paths.TransactionsDir, "C1", "2024", "jan.xlsx"), "jan")
	writeFile(suite.T(), suite.paths.OpeningBalanceFileFor(domain.PartnerNone, "C1", "2024"), "ob")
}

func (suite *CacheServiceTestSuite) TestResolveFileSet() {
	files, err := suite.service.ResolveFileSet(suite.req)
	suite.Require().NoError(err)
	suite.Equal([]string{
		filepath.Join(suite.paths.TransactionsDir, "C1", "2024", "jan.xlsx"),
		suite.paths.InitialBalancePrefix + " C1 2024.xlsx",
	}, files)

	bank := suite.req
	bank.ReportType = domain.ReportBankBalance
	files, err = suite.service.ResolveFileSet(bank)
	suite.Require().NoError(err)
	suite.Contains(files, suite.paths.BankAccountsPath)
	suite.Contains(files, suite.paths.ChartOfAccountsPath)

	vendor := suite.req
	vendor.ReportType = domain.ReportVendorBalance
	vendor.Layout = "bu1"
	files, err = suite.service.ResolveFileSet(vendor)
	suite.Require().NoError(err)
	suite.Contains(files, suite.paths.VendorInitialBalancePrefix+" C1 2024.xlsx")
	suite.Contains(files, suite.paths.ChartOfAccountsPath)
	suite.Contains(files, suite.paths.LayoutFile)
	suite.NotContains(files, suite.paths.BankAccountsPath)

	unknown := suite.req
	unknown.ReportType = "grand_journal"
	_, err = suite.service.ResolveFileSet(unknown)
	suite.ErrorIs(err, apperrors.ErrNotImplemented)
}

func (suite *CacheServiceTestSuite) TestComputeKey_PureAndSensitiveToFiles() {
	ctx := context.Background()
	k1, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	k2, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	suite.Equal(k1, k2)
	suite.Equal("gl_compta_gen", string(k1.ReportType))

	// Touching a file changes the key.
	extract := filepath.Join(suite.paths.TransactionsDir, "C1", "2024", "jan.xlsx")
	later := time.Now().Add(time.Hour)
	suite.Require().NoError(os.Chtimes(extract, later, later))
	k3, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	suite.NotEqual(k1.Signature, k3.Signature)

	// So does a new extract.
	writeFile(suite.T(), filepath.Join(suite.paths.TransactionsDir, "C1", "2024", "feb.xlsx"), "feb")
	k4, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	suite.NotEqual(k3.Signature, k4.Signature)

	// Other parameters are part of the key.
	other := suite.req
	other.EndMonth = 6
	k5, err := suite.service.ComputeKey(ctx, other)
	suite.Require().NoError(err)
	suite.Equal(k4.Signature, k5.Signature)
	suite.NotEqual(k4.String(), k5.String())
}

func (suite *CacheServiceTestSuite) TestComputeKey_SensitiveToCompanyName() {
	ctx := context.Background()
	withName := func(name string) portssvc.CacheService {
		return services.NewCacheService(suite.repo, suite.paths,
			services.WithCacheCompanyNames(map[string]string{"C1": name}))
	}

	k1, err := withName("SECO").ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	k2, err := withName("SECO").ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	k3, err := withName("SECO SA").ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	suite.Equal(k1, k2)
	suite.NotEqual(k1.String(), k3.String(), "a renamed company is a different report")

	// Editing the companies file changes the key as well.
	suite.paths.CompaniesFile = filepath.Join(suite.root, "companies.yaml")
	writeFile(suite.T(), suite.paths.CompaniesFile, "C1: SECO\n")
	files, err := withName("SECO").ResolveFileSet(suite.req)
	suite.Require().NoError(err)
	suite.Contains(files, suite.paths.CompaniesFile)

	k4, err := withName("SECO").ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	later := time.Now().Add(time.Hour)
	suite.Require().NoError(os.Chtimes(suite.paths.CompaniesFile, later, later))
	k5, err := withName("SECO").ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)
	suite.NotEqual(k4.Signature, k5.Signature)
}

func (suite *CacheServiceTestSuite) TestStoreLookupTouch() {
	ctx := context.Background()
	key, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)

	_, found, err := suite.service.Lookup(ctx, key)
	suite.Require().NoError(err)
	suite.False(found)

	artifact := filepath.Join(suite.root, "output", "report.xlsx")
	writeFile(suite.T(), artifact, "xlsx")
	suite.Require().NoError(suite.service.Store(ctx, key, artifact))

	path, found, err := suite.service.Lookup(ctx, key)
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal(artifact, path)

	suite.now = suite.now.Add(time.Hour)
	suite.Require().NoError(suite.service.Touch(ctx, key))
	entry, err := suite.repo.GetEntry(ctx, key.String())
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), entry.CreatedAt)
	suite.Equal(suite.now, entry.AccessedAt)
}

func (suite *CacheServiceTestSuite) TestLookup_SelfHealsVanishedArtifact() {
	ctx := context.Background()
	key, err := suite.service.ComputeKey(ctx, suite.req)
	suite.Require().NoError(err)

	artifact := filepath.Join(suite.root, "output", "gone.xlsx")
	writeFile(suite.T(), artifact, "xlsx")
	suite.Require().NoError(suite.service.Store(ctx, key, artifact))
	suite.Require().NoError(os.Remove(artifact))

	_, found, err := suite.service.Lookup(ctx, key)
	suite.Require().NoError(err)
	suite.False(found)

	_, err = suite.repo.GetEntry(ctx, key.String())
	suite.ErrorIs(err, apperrors.ErrNotFound, "the dangling entry is removed")
}

func (suite *CacheServiceTestSuite) TestClearAndStats() {
	ctx := context.Background()
	artifacts := map[int]string{}
	var keys []domain.CacheKey
	for _, end := range []int{3, 6, 12} {
		req := suite.req
		req.EndMonth = end
		key, err := suite.service.ComputeKey(ctx, req)
		suite.Require().NoError(err)
		path := filepath.Join(suite.root, "output", key.Signature[:8]+string(rune('a'+end))+".xlsx")
		writeFile(suite.T(), path, "12345")
		suite.Require().NoError(suite.service.Store(ctx, key, path))
		artifacts[end] = path
		keys = append(keys, key)
	}

	stats, err := suite.service.Stats(ctx)
	suite.Require().NoError(err)
	suite.Equal(3, stats.EntryCount)
	suite.Equal(int64(15), stats.TotalBytes)
	suite.Equal("memory", stats.Location)
	suite.Equal("memory", stats.Backend)

	suite.Require().NoError(suite.service.Clear(ctx, &keys[0]))
	suite.NoFileExists(artifacts[3])
	stats, _ = suite.service.Stats(ctx)
	suite.Equal(2, stats.EntryCount)

	suite.Require().NoError(suite.service.Clear(ctx, nil))
	stats, err = suite.service.Stats(ctx)
	suite.Require().NoError(err)
	suite.Equal(0, stats.EntryCount)
	suite.NoFileExists(artifacts[6])
	suite.NoFileExists(artifacts[12])

	suite.NoError(suite.service.Clear(ctx, &keys[1]), "clearing an absent key is not an error")
}

func (suite *CacheServiceTestSuite) TestEntries_Paging() {
	ctx := context.Background()
	var keys []string
	for i, end := range []int{3, 6, 12} {
		req := suite.req
		req.EndMonth = end
		key, err := suite.service.ComputeKey(ctx, req)
		suite.Require().NoError(err)
		suite.now = time.Date(2024, 6, 1, 9+i, 0, 0, 0, time.UTC)
		suite.Require().NoError(suite.service.Store(ctx, key, filepath.Join(suite.root, "output", key.String())))
		keys = append(keys, key.String())
	}

	page, err := suite.service.Entries(ctx, 2, "")
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 2)
	suite.Equal(keys[2], page.Entries[0].Key, "most recently accessed first")
	suite.Equal(keys[1], page.Entries[1].Key)
	suite.NotEmpty(page.NextPageToken)

	page, err = suite.service.Entries(ctx, 2, page.NextPageToken)
	suite.Require().NoError(err)
	suite.Require().Len(page.Entries, 1)
	suite.Equal(keys[0], page.Entries[0].Key)
	suite.Empty(page.NextPageToken)

	_, err = suite.service.Entries(ctx, 0, "")
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.service.Entries(ctx, 10, "not a token!")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestCacheServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CacheServiceTestSuite))
}
