package domain

// LedgerInput is everything needed to build the ledger of one account.
type LedgerInput struct {
	AccountCode  string
	Description  string
	Transactions []TransactionRecord // already restricted to the account and period
	Opening      *OpeningBalanceEntry
	Period       Period
	// Partner sub-ledgers carry the partner's signed total forward without the gestion reset.
	Partner bool
	// OffsetAccounts maps an IFRS code to the opening-balance entry used to
	// resolve the SYSCOHADA contrepartie of each line.
	OffsetAccounts map[string]OpeningBalanceEntry
}

// GeneralLedgerInput feeds the general (or bank) ledger.
type GeneralLedgerInput struct {
	Title        string
	CompanyCode  string
	CompanyName  string
	Period       Period
	Transactions []TransactionRecord
	Openings     []OpeningBalanceEntry
	// BankAccounts restricts the ledger to the listed SYSCOHADA codes when non-nil.
	BankAccounts []string
}

// PartnerLedgerInput feeds a vendor or customer sub-ledger.
type PartnerLedgerInput struct {
	Title        string
	CompanyCode  string
	CompanyName  string
	PartnerType  PartnerType
	Period       Period
	Transactions []TransactionRecord
	Openings     []OpeningBalanceEntry // one per partner, SyscohadaAccount holds the partner id
}

// GeneralBalanceInput feeds the general (or bank) trial balance.
type GeneralBalanceInput struct {
	Title        string
	CompanyCode  string
	CompanyName  string
	Period       Period
	Transactions []TransactionRecord
	Openings     []OpeningBalanceEntry
	Chart        []ChartEntry
	BankAccounts []string
}

// PartnerBalanceInput feeds a vendor or customer trial balance.
type PartnerBalanceInput struct {
	Title        string
	CompanyCode  string
	CompanyName  string
	PartnerType  PartnerType
	Period       Period
	Transactions []TransactionRecord
	Openings     []OpeningBalanceEntry
}
