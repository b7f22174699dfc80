package repositories

import (
	"context"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// TransactionQuery selects the transaction lines of one report.
type TransactionQuery struct {
	CompanyCode string
	Year        int
	Period      domain.Period
	PartnerType domain.PartnerType // empty for the general ledger extracts
	// BankAccounts restricts the lines to these SYSCOHADA codes when non-nil.
	BankAccounts []string
	// DocumentNumber restricts the lines to one document when set.
	DocumentNumber string
}

// SourceRepository is the ingestion collaborator: it reads the extracts and reference files.
type SourceRepository interface {
	// LoadTransactions returns matching lines in ascending posting-date order,
	// stable with respect to load order, plus any schema coercion warnings.
	LoadTransactions(ctx context.Context, q TransactionQuery) ([]domain.TransactionRecord, []domain.SchemaWarning, error)

	// LoadOpeningBalances returns the opening positions of a company and year.
	// A missing file is reported as apperrors.ErrMissingSourceFile.
	LoadOpeningBalances(ctx context.Context, companyCode string, year int, partner domain.PartnerType) ([]domain.OpeningBalanceEntry, error)

	// LoadChartOfAccounts returns the group labels of the OHADA chart.
	LoadChartOfAccounts(ctx context.Context) ([]domain.ChartEntry, error)

	// LoadBankAccounts returns the SYSCOHADA codes treated as bank accounts.
	LoadBankAccounts(ctx context.Context) ([]string, error)
}
