package render

import (
	"context"
	"fmt"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	balanceSheet       = "Balance General Format"
	balanceDetailSheet = "Balance General Format Detail"
	partnerSheet       = "Balance"

	// Balance rows start below the two header rows.
	balanceFirstRow = 6
	// Label and description occupy columns A and B, the eight measures C to J.
	measuresFirstCol = 3
)

// RenderGeneralBalance writes the aggregated balance sheet, the bucket totals
// and the (SYSCOHADA, IFRS) detail sheet.
func (r *ExcelRenderer) RenderGeneralBalance(ctx context.Context, path string, report *domain.GeneralBalanceReport) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	s := wb.sheet(balanceSheet)
	r.writeBalanceHeader(wb, s, 1, report.CompanyCode, report.CompanyName, "", "BALANCE COMPTABILITE GENERALE", report.Period)

	row := balanceFirstRow
	for _, br := range report.Rows {
		writeBalanceRow(wb, s, 1, row, br)
		row++
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	row += 2
	for _, total := range report.Totals {
		s.set(1, row, total.Label)
		s.style(1, row, 1, row, wb.styles.bold)
		writeMeasures(s, measuresFirstCol, row, total.Measures, true)
		s.style(measuresFirstCol, row, measuresFirstCol+7, row, wb.styles.number)
		row++
	}
	s.width(1, 1, 14)
	s.width(2, 2, 40)
	s.width(3, 10, 16)

	d := wb.sheet(balanceDetailSheet)
	r.writeBalanceHeader(wb, d, 1, report.CompanyCode, report.CompanyName, "", "BALANCE COMPTABILITE GENERALE", report.Period)
	d.merge(11, 4, 11, 5, "COMPTE IFRS")
	d.merge(12, 4, 12, 5, "LIBELLE IFRS")
	d.merge(13, 4, 13, 5, "SOLDE NET")
	d.style(11, 4, 13, 5, wb.styles.header)

	row = balanceFirstRow
	for _, dr := range report.Details {
		d.set(1, row, dr.Label)
		d.set(2, row, dr.Description)
		writeMeasures(d, measuresFirstCol, row, dr.Measures, false)
		d.set(11, row, dr.IFRSAccount)
		d.set(12, row, dr.IFRSDesc)
		d.set(13, row, dr.Measures.Solde().InexactFloat64())
		d.style(measuresFirstCol, row, 10, row, wb.styles.number)
		d.style(13, row, 13, row, wb.styles.number)
		row++
	}
	d.width(1, 1, 14)
	d.width(2, 2, 40)
	d.width(3, 10, 16)
	d.width(11, 12, 24)

	return wb.save(ctx, path)
}

// RenderPartnerBalance writes the flat vendor or customer balance with its carry-over total.
func (r *ExcelRenderer) RenderPartnerBalance(ctx context.Context, path string, report *domain.PartnerBalanceReport) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	title, account := "BALANCE COMPTABILITE - FOURNISSEURS", "401100"
	if report.PartnerType == domain.PartnerCustomer {
		title, account = "BALANCE COMPTABILITE - CLIENTS", "411101"
	}

	s := wb.sheet(partnerSheet)
	r.writeBalanceHeader(wb, s, 1, report.CompanyCode, report.CompanyName, fmt.Sprintf("COMPTE: %s", account), title, report.Period)

	row := balanceFirstRow
	for _, br := range report.Rows {
		writeBalanceRow(wb, s, 1, row, br)
		row++
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	row++
	writeBalanceRow(wb, s, 1, row, report.Total)
	s.width(1, 1, 14)
	s.width(2, 2, 40)
	s.width(3, 10, 16)

	return wb.save(ctx, path)
}

// writeBalanceHeader writes the company, title, period and column group
// headers on rows 2 to 5, the first column at col. A non-empty account label
// is written under the company code.
func (r *ExcelRenderer) writeBalanceHeader(wb *workbook, s *sheetWriter, col int, companyCode, companyName, account, title string, period domain.Period) {
	measures := col + 2
	if account == "" {
		s.merge(col, 2, col, 3, companyCode)
	} else {
		s.set(col, 2, companyCode)
		s.set(col, 3, account)
	}
	s.merge(col+1, 2, col+1, 3, companyName)
	s.style(col, 2, col+1, 3, wb.styles.subtitle)
	s.merge(measures, 2, measures+5, 2, title)
	s.style(measures, 2, measures+5, 2, wb.styles.title)
	s.merge(measures, 3, measures+5, 3, fmt.Sprintf("En FCFA du %s Au %s", formatDate(period.Start), formatDate(period.End)))
	s.style(measures, 3, measures+5, 3, wb.styles.subtitle)
	s.merge(measures+6, 2, measures+6, 3, "Date Printed:")
	s.merge(measures+7, 2, measures+7, 3, accounting.PrintedDate(r.now()))
	s.style(measures+6, 2, measures+7, 3, wb.styles.subtitle)

	s.merge(col, 4, col, 5, "COMPTE")
	s.merge(col+1, 4, col+1, 5, "LIBELLE")
	for i, group := range []string{"A NOUVEAU", "MOUVEMENTS", "CUMULS", "SOLDE"} {
		c := measures + 2*i
		s.merge(c, 4, c+1, 4, group)
		s.set(c, 5, "DEBIT")
		s.set(c+1, 5, "CREDIT")
	}
	s.style(col, 4, measures+7, 5, wb.styles.header)
}

func writeBalanceRow(wb *workbook, s *sheetWriter, col, row int, br domain.BalanceRow) {
	s.set(col, row, br.Label)
	s.set(col+1, row, br.Description)
	writeMeasures(s, col+2, row, br.Measures, false)
	if br.Subtotal {
		s.style(col, row, col+1, row, wb.styles.subtotalLabel)
		s.style(col+2, row, col+9, row, wb.styles.subtotalNumber)
		return
	}
	s.style(col+2, row, col+9, row, wb.styles.number)
}

// writeMeasures writes the eight measures as magnitudes from col on. Zero
// cells stay blank unless keepZero is set.
func writeMeasures(s *sheetWriter, col, row int, m domain.BalanceMeasures, keepZero bool) {
	for i, d := range []decimal.Decimal{
		m.OpeningDebit, m.OpeningCredit,
		m.PeriodDebit, m.PeriodCredit,
		m.CumulativeDebit, m.CumulativeCredit,
		m.ClosingDebit, m.ClosingCredit,
	} {
		if keepZero && d.IsZero() {
			s.set(col+i, row, 0)
			continue
		}
		s.amount(col+i, row, d)
	}
}
