package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountClass splits OHADA accounts into balance-sheet and income-statement accounts.
type AccountClass string

const (
	ClassBilan   AccountClass = "BILAN"   // leading digit 1-5
	ClassGestion AccountClass = "GESTION" // leading digit 6-8
	ClassOther   AccountClass = "OTHER"
)

// EmptyAccountSentinel marks opening-balance lines without a SYSCOHADA code.
// It never gets a ledger nor takes part in aggregation.
const EmptyAccountSentinel = "OHADA VIDES"

// ClassifyAccount returns the class of a SYSCOHADA account code from its leading digit.
func ClassifyAccount(code string) AccountClass {
	if code == "" {
		return ClassOther
	}
	switch code[0] {
	case '1', '2', '3', '4', '5':
		return ClassBilan
	case '6', '7', '8':
		return ClassGestion
	default:
		return ClassOther
	}
}

// IsGestionAccount reports whether the account's opening balance resets every period.
func IsGestionAccount(code string) bool {
	return ClassifyAccount(code) == ClassGestion
}

// OpeningBalanceEntry is the opening position of one account for a company and fiscal year.
type OpeningBalanceEntry struct {
	CompanyCode      string          `json:"companyCode"`
	FiscalYear       string          `json:"fiscalYear"`
	SyscohadaAccount string          `json:"syscohadaAccount"`
	Description      string          `json:"description"`
	IFRSAccount      string          `json:"ifrsAccount"`
	IFRSDescription  string          `json:"ifrsDescription"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"` // Non-positive
}

// NewOpeningBalanceEntry builds an entry, normalizing the credit side to non-positive.
func NewOpeningBalanceEntry(company, year, syscohada, desc, ifrs, ifrsDesc string, debit, credit decimal.Decimal) OpeningBalanceEntry {
	return OpeningBalanceEntry{
		CompanyCode:      company,
		FiscalYear:       year,
		SyscohadaAccount: strings.TrimSpace(syscohada),
		Description:      desc,
		IFRSAccount:      ifrs,
		IFRSDescription:  ifrsDesc,
		Debit:            debit,
		Credit:           credit.Abs().Neg(),
	}
}

// PartnerOpeningEntry builds the opening entry of a vendor or customer from its signed total.
func PartnerOpeningEntry(company, year, partnerID, partnerName string, total decimal.Decimal) OpeningBalanceEntry {
	e := OpeningBalanceEntry{
		CompanyCode:      company,
		FiscalYear:       year,
		SyscohadaAccount: partnerID,
		Description:      partnerName,
		Debit:            decimal.Zero,
		Credit:           decimal.Zero,
	}
	if total.IsPositive() {
		e.Debit = total
	} else {
		e.Credit = total
	}
	return e
}

// Balance returns the signed opening position (debit plus non-positive credit).
func (o OpeningBalanceEntry) Balance() decimal.Decimal {
	return o.Debit.Add(o.Credit)
}
