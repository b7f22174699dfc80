package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReportType identifies one of the report kinds the engine can produce.
type ReportType string

const (
	ReportGeneralLedger       ReportType = "gl_compta_gen"
	ReportBankLedger          ReportType = "gl_bnk"
	ReportVendorLedger        ReportType = "gl_fourn"
	ReportCustomerLedger      ReportType = "gl_client"
	ReportGeneralBalance      ReportType = "bal_gen"
	ReportBankBalance         ReportType = "bal_gen_bnk"
	ReportVendorBalance       ReportType = "bal_gen_fourn"
	ReportCustomerBalance     ReportType = "bal_gen_client"
	ReportTypeNotImplemented  string     = "Not Yet Implemented"
	ReportDateLayout          string     = "02/01/2006"
	ReportFileTimestampLayout string     = "20060102_150405"
)

// PartnerType selects a business-partner sub-ledger.
type PartnerType string

const (
	PartnerNone     PartnerType = ""
	PartnerVendor   PartnerType = "Vendor"
	PartnerCustomer PartnerType = "Customer"
)

// SupportedReportTypes lists the implemented report types in menu order.
var SupportedReportTypes = []ReportType{
	ReportGeneralLedger,
	ReportBankLedger,
	ReportVendorLedger,
	ReportCustomerLedger,
	ReportGeneralBalance,
	ReportBankBalance,
	ReportVendorBalance,
	ReportCustomerBalance,
}

// IsSupported reports whether the type has an implementation.
func (t ReportType) IsSupported() bool {
	for _, s := range SupportedReportTypes {
		if s == t {
			return true
		}
	}
	return false
}

// IsBalance reports whether the type is a trial balance rather than a ledger.
func (t ReportType) IsBalance() bool {
	switch t {
	case ReportGeneralBalance, ReportBankBalance, ReportVendorBalance, ReportCustomerBalance:
		return true
	}
	return false
}

// IsBank reports whether the type is restricted to bank accounts.
func (t ReportType) IsBank() bool {
	return t == ReportBankLedger || t == ReportBankBalance
}

// Partner returns the business-partner type the report is scoped to, if any.
func (t ReportType) Partner() PartnerType {
	switch t {
	case ReportVendorLedger, ReportVendorBalance:
		return PartnerVendor
	case ReportCustomerLedger, ReportCustomerBalance:
		return PartnerCustomer
	}
	return PartnerNone
}

// Title is the human readable name used in sheet headers.
func (t ReportType) Title() string {
	switch t {
	case ReportGeneralLedger:
		return "GRAND LIVRE DES COMPTES"
	case ReportBankLedger:
		return "GRAND LIVRE DES COMPTES BANCAIRES"
	case ReportVendorLedger:
		return "GRAND LIVRE FOURNISSEURS"
	case ReportCustomerLedger:
		return "GRAND LIVRE CLIENTS"
	case ReportGeneralBalance:
		return "BALANCE GENERALE DES COMPTES"
	case ReportBankBalance:
		return "BALANCE DES COMPTES BANCAIRES"
	case ReportVendorBalance:
		return "BALANCE FOURNISSEURS"
	case ReportCustomerBalance:
		return "BALANCE CLIENTS"
	}
	return string(t)
}

// ReportRequest carries the parameters of one report generation.
type ReportRequest struct {
	ReportType  ReportType  `json:"reportType"`
	CompanyCode string      `json:"companyCode"`
	CompanyName string      `json:"companyName,omitempty"`
	Year        int         `json:"year"`
	StartMonth  int         `json:"startMonth"`
	EndMonth    int         `json:"endMonth"`
	PartnerType PartnerType `json:"partnerType,omitempty"`
	Bank        bool        `json:"bank"`
	Layout      string      `json:"layout,omitempty"`
}

// Normalize fills the partner type and bank flag implied by the report type.
func (r ReportRequest) Normalize() ReportRequest {
	if p := r.ReportType.Partner(); p != PartnerNone {
		r.PartnerType = p
	}
	if r.ReportType.IsBank() {
		r.Bank = true
	}
	return r
}

// Validate checks the request parameters that do not depend on configuration.
func (r ReportRequest) Validate() error {
	if !r.ReportType.IsSupported() {
		return fmt.Errorf("report type %q: %s", r.ReportType, ReportTypeNotImplemented)
	}
	if r.CompanyCode == "" {
		return fmt.Errorf("company code is required")
	}
	// Both fields are printed into the ':' separated cache key.
	if strings.Contains(r.CompanyCode, ":") {
		return fmt.Errorf("company code %q must not contain ':'", r.CompanyCode)
	}
	if strings.Contains(r.Layout, ":") {
		return fmt.Errorf("layout %q must not contain ':'", r.Layout)
	}
	if r.Year < 1900 || r.Year > 9999 {
		return fmt.Errorf("invalid year %d", r.Year)
	}
	if r.StartMonth < 1 || r.StartMonth > 12 || r.EndMonth < 1 || r.EndMonth > 12 {
		return fmt.Errorf("months must be between 1 and 12")
	}
	if r.StartMonth > r.EndMonth {
		return fmt.Errorf("start month %d is after end month %d", r.StartMonth, r.EndMonth)
	}
	return nil
}

// YearString returns the fiscal year as it appears in folder and file names.
func (r ReportRequest) YearString() string {
	return strconv.Itoa(r.Year)
}

// Period returns the inclusive date range covered by the request.
func (r ReportRequest) Period() Period {
	start := time.Date(r.Year, time.Month(r.StartMonth), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(r.Year, time.Month(r.EndMonth)+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Period{Start: start, End: end}
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls on a day within the period.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}

// String renders the period as "du dd/mm/yyyy au dd/mm/yyyy".
func (p Period) String() string {
	return fmt.Sprintf("du %s au %s", p.Start.Format(ReportDateLayout), p.End.Format(ReportDateLayout))
}

// ReportArtifact is the result of one report generation.
type ReportArtifact struct {
	Path      string          `json:"path"`
	FileName  string          `json:"fileName"`
	CacheKey  string          `json:"cacheKey"`
	CacheHit  bool            `json:"cacheHit"`
	Empty     bool            `json:"empty"`
	Warnings  []SchemaWarning `json:"warnings,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// JournalRequest selects one accounting document for printing.
type JournalRequest struct {
	CompanyCode    string `json:"companyCode"`
	CompanyName    string `json:"companyName,omitempty"`
	Year           int    `json:"year"`
	DocumentNumber string `json:"documentNumber"`
}

// DocumentJournal is the "fiche comptable" of one document number.
type DocumentJournal struct {
	CompanyCode    string              `json:"companyCode"`
	CompanyName    string              `json:"companyName"`
	Year           int                 `json:"year"`
	DocumentNumber string              `json:"documentNumber"`
	DocumentType   string              `json:"documentType"`
	PostingDate    time.Time           `json:"postingDate"`
	EntryDate      time.Time           `json:"entryDate"`
	EntryTime      string              `json:"entryTime"`
	UserID         string              `json:"userID"`
	Lines          []TransactionRecord `json:"lines"`
	TotalDebit     decimal.Decimal     `json:"totalDebit"`
	TotalCredit    decimal.Decimal     `json:"totalCredit"`
}
