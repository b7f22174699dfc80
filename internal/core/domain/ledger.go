package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRowKind tags a row of an account ledger for rendering.
type LedgerRowKind string

const (
	RowOpening     LedgerRowKind = "OPENING"
	RowTransaction LedgerRowKind = "TRANSACTION"
	RowSubtotal    LedgerRowKind = "SUBTOTAL"
	RowTotal       LedgerRowKind = "TOTAL"
	RowClosing     LedgerRowKind = "CLOSING"
)

// LedgerRow is one line of an account ledger. Debit is non-negative and Credit
// non-positive; Balance is the running balance after the row.
type LedgerRow struct {
	Kind           LedgerRowKind   `json:"kind"`
	Date           time.Time       `json:"date"`
	DocumentNumber string          `json:"documentNumber,omitempty"`
	DocumentType   string          `json:"documentType,omitempty"`
	Designation    string          `json:"designation,omitempty"`
	Label          string          `json:"label"`
	Reference      string          `json:"reference,omitempty"`
	FiscalYear     string          `json:"fiscalYear,omitempty"`
	IFRSAccount    string          `json:"ifrsAccount,omitempty"`
	IFRSDesc       string          `json:"ifrsDesc,omitempty"`
	EntryDate      time.Time       `json:"entryDate"`
	EntryTime      string          `json:"entryTime,omitempty"`
	UserID         string          `json:"userID,omitempty"`
	OffsetIFRS     string          `json:"offsetIFRS,omitempty"`
	OffsetIFRSDesc string          `json:"offsetIFRSDesc,omitempty"`
	OffsetAccount  string          `json:"offsetAccount,omitempty"` // SYSCOHADA contrepartie
	OffsetDesc     string          `json:"offsetDesc,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	Month          time.Month      `json:"month,omitempty"`     // subtotal rows only
	LineCount      int             `json:"lineCount,omitempty"` // total rows only
}

// IsSubtotal reports whether the row gets the subtotal style.
func (r LedgerRow) IsSubtotal() bool {
	return r.Kind == RowSubtotal || r.Kind == RowTotal
}

// AccountLedger is the chronological, subtotaled ledger of one account.
type AccountLedger struct {
	AccountCode      string          `json:"accountCode"`
	Description      string          `json:"description"`
	IFRSAccount      string          `json:"ifrsAccount"`
	IFRSDescription  string          `json:"ifrsDescription"`
	Class            AccountClass    `json:"class"`
	Rows             []LedgerRow     `json:"rows"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	TransactionCount int             `json:"transactionCount"`
}

// Measures returns the eight aggregation measures of the ledger.
func (l AccountLedger) Measures() BalanceMeasures {
	return NewBalanceMeasures(l.OpeningBalance, l.TotalDebit, l.TotalCredit)
}

// LedgerSummaryRow is one line of the bilan or gestion summary sheet.
type LedgerSummaryRow struct {
	AccountCode    string          `json:"accountCode"`
	Description    string          `json:"description"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// GeneralLedgerReport holds every account ledger of a company for a period.
type GeneralLedgerReport struct {
	Title       string             `json:"title"`
	CompanyCode string             `json:"companyCode"`
	CompanyName string             `json:"companyName"`
	Period      Period             `json:"period"`
	Ledgers     []AccountLedger    `json:"ledgers"`
	Bilan       []LedgerSummaryRow `json:"bilan"`
	Gestion     []LedgerSummaryRow `json:"gestion"`
}

// IsEmpty reports whether no account had any movement.
func (r GeneralLedgerReport) IsEmpty() bool {
	for _, l := range r.Ledgers {
		if l.TransactionCount > 0 {
			return false
		}
	}
	return true
}

// PartnerLedgerReport holds the sub-ledgers of every vendor or customer with movements.
type PartnerLedgerReport struct {
	Title       string          `json:"title"`
	CompanyCode string          `json:"companyCode"`
	CompanyName string          `json:"companyName"`
	PartnerType PartnerType     `json:"partnerType"`
	Period      Period          `json:"period"`
	Ledgers     []AccountLedger `json:"ledgers"`
}

// IsEmpty reports whether no partner had any movement.
func (r PartnerLedgerReport) IsEmpty() bool {
	return len(r.Ledgers) == 0
}
