package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one posting line of a company extract, as delivered by
// the ingestion collaborator. Records are read-only once loaded.
type TransactionRecord struct {
	CompanyCode       string          `json:"companyCode"`
	CompanyName       string          `json:"companyName"`
	FiscalYear        string          `json:"fiscalYear"`
	IFRSAccount       string          `json:"ifrsAccount"`      // G/L Account
	IFRSAccountDesc   string          `json:"ifrsAccountDesc"`  // G/L Acct Long Text
	SyscohadaAccount  string          `json:"syscohadaAccount"` // Alternative Account No.
	OffsetAccount     string          `json:"offsetAccount"`    // Offsetting acct no. (IFRS code)
	OffsetAccountDesc string          `json:"offsetAccountDesc,omitempty"`
	PostingDate       time.Time       `json:"postingDate"`
	EntryDate         time.Time       `json:"entryDate"`
	EntryTime         string          `json:"entryTime"`
	Amount            decimal.Decimal `json:"amount"` // Signed, local currency
	DocumentNumber    string          `json:"documentNumber"`
	DocumentType      string          `json:"documentType"`
	Text              string          `json:"text"`
	Reference         string          `json:"reference"`
	Designation       string          `json:"designation"`
	UserID            string          `json:"userID"`
	PartnerID         string          `json:"partnerID"` // Vendor or Customer number on sub-ledger extracts
	PartnerName       string          `json:"partnerName"`
	LoadOrder         int             `json:"loadOrder"` // Position in the loaded stream, used to break date ties
}

// Debit returns the debit-side amount: the amount when strictly positive, zero otherwise.
func (t TransactionRecord) Debit() decimal.Decimal {
	if t.Amount.IsPositive() {
		return t.Amount
	}
	return decimal.Zero
}

// Credit returns the credit-side amount, signed non-positive.
// A zero amount is credit-side.
func (t TransactionRecord) Credit() decimal.Decimal {
	if t.Amount.IsPositive() {
		return decimal.Zero
	}
	return t.Amount
}

// Label returns the free-text line label, falling back to the reference and then to fallback.
func (t TransactionRecord) Label(fallback string) string {
	if t.Text != "" {
		return t.Text
	}
	if t.Reference != "" {
		return t.Reference
	}
	return fallback
}

// SchemaWarning reports a column whose loaded type disagreed with the column contract.
type SchemaWarning struct {
	File     string `json:"file"`
	Column   string `json:"column"`
	Expected string `json:"expected"`
	Coerced  bool   `json:"coerced"`
	Detail   string `json:"detail,omitempty"`
}
