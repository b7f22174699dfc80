package domain

import (
	"fmt"
	"path/filepath"
)

// SourcePaths locates the source files of every report type.
type SourcePaths struct {
	TransactionsDir              string
	VendorTransactionsDir        string
	CustomerTransactionsDir      string
	InitialBalancePrefix         string
	VendorInitialBalancePrefix   string
	CustomerInitialBalancePrefix string
	ChartOfAccountsPath          string
	BankAccountsPath             string
	LayoutFile                   string
	CompaniesFile                string
}

// TransactionsDirFor returns the extract folder of a company and year, for
// the general ledger or a partner sub-ledger.
func (p SourcePaths) TransactionsDirFor(partner PartnerType, company, year string) string {
	base := p.TransactionsDir
	switch partner {
	case PartnerVendor:
		base = p.VendorTransactionsDir
	case PartnerCustomer:
		base = p.CustomerTransactionsDir
	}
	return filepath.Join(base, company, year)
}

// OpeningBalanceFileFor returns "<prefix> <company> <year>.xlsx" for the ledger kind.
func (p SourcePaths) OpeningBalanceFileFor(partner PartnerType, company, year string) string {
	prefix := p.InitialBalancePrefix
	switch partner {
	case PartnerVendor:
		prefix = p.VendorInitialBalancePrefix
	case PartnerCustomer:
		prefix = p.CustomerInitialBalancePrefix
	}
	return fmt.Sprintf("%s %s %s.xlsx", prefix, company, year)
}
