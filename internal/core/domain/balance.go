package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceMeasures holds the eight numeric columns of a trial balance line.
// Credit-side measures are non-positive.
type BalanceMeasures struct {
	OpeningDebit     decimal.Decimal `json:"openingDebit"`
	OpeningCredit    decimal.Decimal `json:"openingCredit"`
	PeriodDebit      decimal.Decimal `json:"periodDebit"`
	PeriodCredit     decimal.Decimal `json:"periodCredit"`
	CumulativeDebit  decimal.Decimal `json:"cumulativeDebit"`
	CumulativeCredit decimal.Decimal `json:"cumulativeCredit"`
	ClosingDebit     decimal.Decimal `json:"closingDebit"`
	ClosingCredit    decimal.Decimal `json:"closingCredit"`
}

// NewBalanceMeasures derives the measures of a single account from its signed
// opening balance and period movements. The opening balance lands on the debit
// side when positive, on the credit side otherwise.
func NewBalanceMeasures(opening, periodDebit, periodCredit decimal.Decimal) BalanceMeasures {
	m := BalanceMeasures{
		OpeningDebit:  decimal.Zero,
		OpeningCredit: decimal.Zero,
		PeriodDebit:   periodDebit,
		PeriodCredit:  periodCredit,
	}
	if opening.IsPositive() {
		m.OpeningDebit = opening
	} else {
		m.OpeningCredit = opening
	}
	return m.withClosing()
}

// NewBalanceMeasuresFromOpening derives the measures of an account whose opening
// debit and credit sides are kept apart, as in the general balance.
func NewBalanceMeasuresFromOpening(openingDebit, openingCredit, periodDebit, periodCredit decimal.Decimal) BalanceMeasures {
	m := BalanceMeasures{
		OpeningDebit:  openingDebit,
		OpeningCredit: openingCredit,
		PeriodDebit:   periodDebit,
		PeriodCredit:  periodCredit,
	}
	return m.withClosing()
}

func (m BalanceMeasures) withClosing() BalanceMeasures {
	m.CumulativeDebit = m.OpeningDebit.Add(m.PeriodDebit)
	m.CumulativeCredit = m.OpeningCredit.Add(m.PeriodCredit)
	solde := m.CumulativeCredit.Add(m.CumulativeDebit)
	m.ClosingDebit = decimal.Zero
	m.ClosingCredit = decimal.Zero
	if solde.IsPositive() {
		m.ClosingDebit = solde
	} else {
		m.ClosingCredit = solde
	}
	return m
}

// Add returns the column-wise sum of m and o.
func (m BalanceMeasures) Add(o BalanceMeasures) BalanceMeasures {
	return BalanceMeasures{
		OpeningDebit:     m.OpeningDebit.Add(o.OpeningDebit),
		OpeningCredit:    m.OpeningCredit.Add(o.OpeningCredit),
		PeriodDebit:      m.PeriodDebit.Add(o.PeriodDebit),
		PeriodCredit:     m.PeriodCredit.Add(o.PeriodCredit),
		CumulativeDebit:  m.CumulativeDebit.Add(o.CumulativeDebit),
		CumulativeCredit: m.CumulativeCredit.Add(o.CumulativeCredit),
		ClosingDebit:     m.ClosingDebit.Add(o.ClosingDebit),
		ClosingCredit:    m.ClosingCredit.Add(o.ClosingCredit),
	}
}

// Solde returns the net closing position.
func (m BalanceMeasures) Solde() decimal.Decimal {
	return m.ClosingDebit.Add(m.ClosingCredit)
}

// ZeroMeasures returns measures with every column set to zero.
func ZeroMeasures() BalanceMeasures {
	return BalanceMeasures{
		OpeningDebit:     decimal.Zero,
		OpeningCredit:    decimal.Zero,
		PeriodDebit:      decimal.Zero,
		PeriodCredit:     decimal.Zero,
		CumulativeDebit:  decimal.Zero,
		CumulativeCredit: decimal.Zero,
		ClosingDebit:     decimal.Zero,
		ClosingCredit:    decimal.Zero,
	}
}

// BalanceRowKind tags a trial balance row.
type BalanceRowKind string

const (
	BalanceRowAccount    BalanceRowKind = "ACCOUNT"
	BalanceRowGroup2     BalanceRowKind = "GROUP2"
	BalanceRowGroup1     BalanceRowKind = "GROUP1"
	BalanceRowBilan      BalanceRowKind = "TOTAL_BILAN"
	BalanceRowGestion    BalanceRowKind = "TOTAL_GESTION"
	BalanceRowGrandTotal BalanceRowKind = "TOTAL_GENERAL"
	BalanceRowCarryOver  BalanceRowKind = "TOTAL_REPORT"
)

// BalanceRow is one labelled line of a trial balance.
type BalanceRow struct {
	Kind        BalanceRowKind  `json:"kind"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	IFRSAccount string          `json:"ifrsAccount,omitempty"`
	IFRSDesc    string          `json:"ifrsDesc,omitempty"`
	Measures    BalanceMeasures `json:"measures"`
	Subtotal    bool            `json:"subtotal"`
}

// AccountMeasures is the per-account input to the hierarchical aggregator.
type AccountMeasures struct {
	AccountCode string          `json:"accountCode"`
	Description string          `json:"description"`
	IFRSAccount string          `json:"ifrsAccount,omitempty"`
	Measures    BalanceMeasures `json:"measures"`
}

// ChartEntry is a group label from the chart of accounts, keyed by a 1 or 2 character prefix.
type ChartEntry struct {
	Prefix string `json:"prefix"`
	Label  string `json:"label"`
}

// GeneralBalanceReport is the aggregated trial balance of a company.
type GeneralBalanceReport struct {
	Title       string       `json:"title"`
	CompanyCode string       `json:"companyCode"`
	CompanyName string       `json:"companyName"`
	Period      Period       `json:"period"`
	Rows        []BalanceRow `json:"rows"`
	Totals      []BalanceRow `json:"totals"`  // bilan, gestion, grand total
	Details     []BalanceRow `json:"details"` // one row per (SYSCOHADA, IFRS) pair
	Empty       bool         `json:"empty"`
}

// PartnerBalanceReport is the flat balance of a vendor or customer sub-ledger.
type PartnerBalanceReport struct {
	Title       string       `json:"title"`
	CompanyCode string       `json:"companyCode"`
	CompanyName string       `json:"companyName"`
	PartnerType PartnerType  `json:"partnerType"`
	Period      Period       `json:"period"`
	Rows        []BalanceRow `json:"rows"`
	Total       BalanceRow   `json:"total"`
	Empty       bool         `json:"empty"`
}
