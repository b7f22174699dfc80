package filesource

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// columnKind is the expected type of an extract column.
type columnKind string

const (
	kindText  columnKind = "Utf8"
	kindInt   columnKind = "Int64"
	kindDate  columnKind = "Date"
	kindClock columnKind = "Time"
)

type column struct {
	name string
	kind columnKind
}

// Extract column names.
const (
	colCompanyCode    = "Company Code"
	colCompanyName    = "Company code Name"
	colFiscalYear     = "Fiscal Year"
	colGLAccount      = "G/L Account"
	colGLAccountText  = "G/L Acct Long Text"
	colSyscohada      = "Alternative Account No."
	colPostingDate    = "Posting Date"
	colDocumentNumber = "Document Number"
	colAmount         = "Amount in local currency"
	colText           = "Text"
	colReference      = "Reference"
	colDocumentType   = "Document Type"
	colOffsetAccount  = "Offsetting acct no."
	colOffsetDesc     = "Offseet A/C Description"
	colDesignation    = "Désignation"
	colEntryDate      = "Entry Date"
	colEntryTime      = "Time of Entry"
	colUserID         = "User ID"
	colDocumentDate   = "Document Date"
	colAmountLC       = "Amount in LC"
	colHeaderText     = "Document Header Text"
)

// Opening balance and chart column names.
const (
	colOpeningSyscohada     = "numéro de compte SYSCOHADA"
	colOpeningSyscohadaDesc = "Intitulés de compte SYSCOHADA"
	colOpeningIFRS          = "Numéro de compte IFRS"
	colOpeningIFRSDesc      = "Intitulé de compte IFRS"
	colOpeningDebit         = "Soldes débiteurs"
	colOpeningCredit        = "Soldes créditeurs"
	colPartnerTotal         = "Total"
	colChartCode            = "Numéro de Compte"
	colChartLabel           = "Nom du Compte"
)

// notAvailable is the spreadsheet error marker some extracts carry in Désignation.
const notAvailable = "#N/A"

// transactionColumns is the column contract of the general ledger extracts.
var transactionColumns = []column{
	{colCompanyCode, kindText},
	{colCompanyName, kindText},
	{colFiscalYear, kindInt},
	{colGLAccount, kindText},
	{colGLAccountText, kindText},
	{colSyscohada, kindInt},
	{colPostingDate, kindDate},
	{colDocumentNumber, kindText},
	{colAmount, kindInt},
	{colText, kindText},
	{colReference, kindText},
	{colDocumentType, kindText},
	{colOffsetAccount, kindText},
	{colDesignation, kindText},
	{colEntryDate, kindDate},
	{colEntryTime, kindClock},
	{colUserID, kindText},
}

// partnerColumns is the column contract of the vendor or customer extracts.
// The partner id and name columns are named after the partner type.
func partnerColumns(partner domain.PartnerType) []column {
	return []column{
		{colCompanyCode, kindText},
		{colCompanyName, kindText},
		{colFiscalYear, kindInt},
		{colDocumentDate, kindDate},
		{colPostingDate, kindDate},
		{string(partner), kindText},
		{string(partner) + " Name", kindText},
		{colSyscohada, kindInt},
		{colAmountLC, kindInt},
		{colDocumentNumber, kindText},
		{colHeaderText, kindText},
		{colAmount, kindInt},
		{colReference, kindText},
		{colText, kindText},
		{colOffsetAccount, kindText},
		{colOffsetDesc, kindText},
		{colDocumentType, kindText},
		{colDesignation, kindText},
	}
}

type columnReport struct {
	kind    columnKind
	missing bool
	coerced int
	failed  int
	sample  string
}

// coercer reads typed values out of a table and records every value that did
// not already have the contract type.
type coercer struct {
	t       *table
	order   []string
	reports map[string]*columnReport
}

func newCoercer(t *table, contract []column) *coercer {
	c := &coercer{t: t, reports: map[string]*columnReport{}}
	for _, col := range contract {
		c.order = append(c.order, col.name)
		c.reports[col.name] = &columnReport{kind: col.kind, missing: !t.has(col.name)}
	}
	return c
}

func (c *coercer) kindOf(col string) columnKind {
	if r, ok := c.reports[col]; ok {
		return r.kind
	}
	return kindText
}

func (c *coercer) note(col, raw string, ok bool) {
	r, tracked := c.reports[col]
	if !tracked {
		return
	}
	if ok {
		r.coerced++
		return
	}
	r.failed++
	if r.sample == "" {
		r.sample = raw
	}
}

func (c *coercer) text(row []string, col string) string {
	return c.t.cell(row, col)
}

// code reads an account, partner or year code. Numeric cells written as
// "101.0" or "1.01E2" come back as "101"; codes that are not numbers are kept as-is.
func (c *coercer) code(row []string, col string) string {
	raw := c.t.cell(row, col)
	if raw == "" {
		return ""
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw
	}
	d, err := decimal.NewFromString(raw)
	integral := err == nil && d.IsInteger()
	if c.kindOf(col) == kindInt {
		c.note(col, raw, integral)
	}
	if integral {
		return d.String()
	}
	return raw
}

// amount reads a signed amount; null and unreadable cells count as zero.
func (c *coercer) amount(row []string, col string) decimal.Decimal {
	raw := c.t.cell(row, col)
	if raw == "" {
		return decimal.Zero
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		d, _ := decimal.NewFromString(raw)
		return d
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(raw, " ", ""), ",", "."))
	if err != nil {
		c.note(col, raw, false)
		return decimal.Zero
	}
	if c.kindOf(col) == kindInt {
		c.note(col, raw, true)
	}
	return d
}

// date reads Excel serial dates and ISO dates as-is, and coerces dd/mm/yyyy text.
func (c *coercer) date(row []string, col string) time.Time {
	raw := c.t.cell(row, col)
	if raw == "" {
		return time.Time{}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return dayOf(t)
		}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return dayOf(t)
		}
	}
	if t, err := time.Parse(domain.ReportDateLayout, raw); err == nil {
		c.note(col, raw, true)
		return t
	}
	c.note(col, raw, false)
	return time.Time{}
}

// clock reads a time of day as "15:04:05" from an Excel day fraction or text.
func (c *coercer) clock(row []string, col string) string {
	raw := c.t.cell(row, col)
	if raw == "" {
		return ""
	}
	if fraction, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(fraction, false); err == nil {
			return t.Format(time.TimeOnly)
		}
	}
	if t, err := time.Parse(time.TimeOnly, raw); err == nil {
		return t.Format(time.TimeOnly)
	}
	if t, err := time.Parse("15:04", raw); err == nil {
		c.note(col, raw, true)
		return t.Format(time.TimeOnly)
	}
	c.note(col, raw, false)
	return raw
}

// warnings returns one warning per column that was missing or needed coercion, in contract order.
func (c *coercer) warnings() []domain.SchemaWarning {
	var out []domain.SchemaWarning
	for _, name := range c.order {
		r := c.reports[name]
		switch {
		case r.missing:
			out = append(out, domain.SchemaWarning{File: c.t.file, Column: name, Expected: string(r.kind), Detail: "column missing"})
		case r.failed > 0:
			out = append(out, domain.SchemaWarning{
				File:     c.t.file,
				Column:   name,
				Expected: string(r.kind),
				Detail:   fmt.Sprintf("%d value(s) could not be coerced, first %q", r.failed, r.sample),
			})
		case r.coerced > 0:
			out = append(out, domain.SchemaWarning{
				File:     c.t.file,
				Column:   name,
				Expected: string(r.kind),
				Coerced:  true,
				Detail:   fmt.Sprintf("%d value(s) coerced", r.coerced),
			})
		}
	}
	return out
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
