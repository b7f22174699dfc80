package render

import (
	"context"
	"fmt"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/accounting"
)

const (
	bilanSheet   = "Grand Livre - Comptes du bilan"
	gestionSheet = "Grand Livre-Comptes de gestion"
	recapSheet   = "Récapitulatif"

	// The ledger table starts on row 7, below the title block.
	ledgerTableRow = 7
	// Two blank rows separate stacked ledgers on the summary sheets.
	stackedGap = 2
)

type ledgerHeader struct {
	companyCode string
	companyName string
	period      domain.Period
}

// RenderGeneralLedger writes one sheet per account, then the bilan and gestion
// sheets stacking the account ledgers of each class, then a recap of closing positions.
func (r *ExcelRenderer) RenderGeneralLedger(ctx context.Context, path string, report *domain.GeneralLedgerReport, layout domain.Layout) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	h := ledgerHeader{companyCode: report.CompanyCode, companyName: report.CompanyName, period: report.Period}
	columns := layout.Visible()

	var bilan, gestion []*domain.AccountLedger
	for i := range report.Ledgers {
		if err := ctx.Err(); err != nil {
			return err
		}
		l := &report.Ledgers[i]
		s := wb.sheet(l.AccountCode)
		writeLedgerTitle(wb, s, 1, h, l, fmt.Sprintf("Grand-livre %s", h.period), len(columns), true)
		writeLedgerTable(wb, s, ledgerTableRow, h, l, columns)
		s.width(1, len(columns), 18)

		switch l.Class {
		case domain.ClassBilan:
			bilan = append(bilan, l)
		case domain.ClassGestion:
			gestion = append(gestion, l)
		}
	}

	writeStackedLedgers(wb, bilanSheet, "Grand Livre - Comptes du bilan", h, bilan, columns)
	writeStackedLedgers(wb, gestionSheet, "Grand Livre - Comptes de gestion", h, gestion, columns)
	writeLedgerRecap(wb, report)

	return wb.save(ctx, path)
}

// RenderPartnerLedger writes one sheet per vendor or customer.
func (r *ExcelRenderer) RenderPartnerLedger(ctx context.Context, path string, report *domain.PartnerLedgerReport, layout domain.Layout) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	h := ledgerHeader{companyCode: report.CompanyCode, companyName: report.CompanyName, period: report.Period}
	columns := layout.Visible()
	for i := range report.Ledgers {
		if err := ctx.Err(); err != nil {
			return err
		}
		l := &report.Ledgers[i]
		s := wb.sheet(l.AccountCode)
		writeLedgerTitle(wb, s, 1, h, l, fmt.Sprintf("%s %s", report.Title, h.period), len(columns), true)
		writeLedgerTable(wb, s, ledgerTableRow, h, l, columns)
		s.width(1, len(columns), 18)
	}
	return wb.save(ctx, path)
}

func titleWidth(columns int) int {
	if columns < 11 {
		return 11
	}
	return columns
}

func writeLedgerTitle(wb *workbook, s *sheetWriter, row int, h ledgerHeader, l *domain.AccountLedger, subtitle string, columns int, withCompany bool) {
	last := titleWidth(columns)
	if withCompany {
		s.merge(1, row, last, row, h.companyName)
		s.style(1, row, last, row, wb.styles.title)
	}
	s.merge(1, row+2, last, row+2, fmt.Sprintf("Compte <%s> %s", l.AccountCode, l.Description))
	s.style(1, row+2, last, row+2, wb.styles.title)
	s.merge(1, row+3, last, row+3, subtitle)
	s.style(1, row+3, last, row+3, wb.styles.title)
}

// writeLedgerTable writes the header and rows of one ledger from row on and
// returns the next free row.
func writeLedgerTable(wb *workbook, s *sheetWriter, row int, h ledgerHeader, l *domain.AccountLedger, columns []domain.LayoutColumn) int {
	for i, c := range columns {
		s.set(i+1, row, c.Label)
	}
	if len(columns) > 0 {
		s.style(1, row, len(columns), row, wb.styles.header)
	}
	row++
	for _, lr := range l.Rows {
		for i, c := range columns {
			if v := ledgerCell(h, l, lr, c.Field); v != "" {
				s.set(i+1, row, v)
			}
		}
		if lr.IsSubtotal() && len(columns) > 0 {
			s.style(1, row, len(columns), row, wb.styles.subtotalLabel)
		}
		row++
	}
	return row
}

func writeStackedLedgers(wb *workbook, name, title string, h ledgerHeader, ledgers []*domain.AccountLedger, columns []domain.LayoutColumn) {
	s := wb.sheet(name)
	row := 1
	for i, l := range ledgers {
		writeLedgerTitle(wb, s, row, h, l, fmt.Sprintf("%s %s", title, h.period), len(columns), i == 0)
		row = writeLedgerTable(wb, s, row+5, h, l, columns) + stackedGap
	}
	s.width(1, len(columns), 18)
}

func writeLedgerRecap(wb *workbook, report *domain.GeneralLedgerReport) {
	s := wb.sheet(recapSheet)
	s.merge(1, 1, 6, 1, report.CompanyName)
	s.style(1, 1, 6, 1, wb.styles.title)
	s.merge(1, 2, 6, 2, fmt.Sprintf("%s %s", report.Title, report.Period))
	s.style(1, 2, 6, 2, wb.styles.subtitle)

	row := 4
	for _, part := range []struct {
		title string
		rows  []domain.LedgerSummaryRow
	}{
		{"Comptes de Bilan", report.Bilan},
		{"Comptes de Gestion", report.Gestion},
	} {
		s.set(1, row, part.title)
		s.style(1, row, 1, row, wb.styles.bold)
		row++
		for i, label := range []string{"Compte", "Libellé", "Solde d'ouverture", "Débit", "Crédit", "Solde de clôture"} {
			s.set(i+1, row, label)
		}
		s.style(1, row, 6, row, wb.styles.header)
		row++
		for _, sr := range part.rows {
			s.set(1, row, sr.AccountCode)
			s.set(2, row, sr.Description)
			s.set(3, row, accounting.FormatBalance(sr.OpeningBalance))
			s.set(4, row, accounting.FormatMovement(sr.TotalDebit))
			s.set(5, row, accounting.FormatMovement(sr.TotalCredit))
			s.set(6, row, accounting.FormatBalance(sr.ClosingBalance))
			row++
		}
		row += stackedGap
	}
	s.width(1, 1, 14)
	s.width(2, 2, 40)
	s.width(3, 6, 18)
}

// ledgerCell projects one canonical field of a ledger row to its printed value.
func ledgerCell(h ledgerHeader, l *domain.AccountLedger, r domain.LedgerRow, field domain.LedgerField) string {
	summary := r.IsSubtotal()
	movement := r.Kind != domain.RowOpening && r.Kind != domain.RowClosing

	switch field {
	case domain.FieldCompanyCode:
		if summary {
			return ""
		}
		return h.companyCode
	case domain.FieldCompanyName:
		if summary {
			return ""
		}
		return h.companyName
	case domain.FieldFiscalYear:
		return r.FiscalYear
	case domain.FieldAccount, domain.FieldPartnerID:
		if summary {
			return ""
		}
		return l.AccountCode
	case domain.FieldAccountDesc, domain.FieldPartnerName:
		if summary {
			return ""
		}
		return l.Description
	case domain.FieldIFRSAccount:
		if summary {
			return ""
		}
		if r.Kind == domain.RowTransaction {
			return r.IFRSAccount
		}
		return l.IFRSAccount
	case domain.FieldIFRSAccountDesc:
		if summary {
			return ""
		}
		if r.Kind == domain.RowTransaction {
			return r.IFRSDesc
		}
		return l.IFRSDescription
	case domain.FieldDate:
		switch r.Kind {
		case domain.RowSubtotal:
			return r.Label
		case domain.RowTotal:
			return "TOTAL"
		}
		return formatDate(r.Date)
	case domain.FieldDocumentType:
		if r.Kind == domain.RowTotal {
			return r.Label
		}
		return r.DocumentType
	case domain.FieldDesignation:
		return r.Designation
	case domain.FieldDocumentNumber:
		return r.DocumentNumber
	case domain.FieldReference:
		return r.Reference
	case domain.FieldDebit:
		if !movement {
			return ""
		}
		return accounting.FormatMovement(r.Debit)
	case domain.FieldCredit:
		if !movement {
			return ""
		}
		return accounting.FormatMovement(r.Credit)
	case domain.FieldBalance:
		return accounting.FormatBalance(r.Balance)
	case domain.FieldLabel:
		if summary {
			return ""
		}
		return r.Label
	case domain.FieldEntryDate:
		return formatDate(r.EntryDate)
	case domain.FieldEntryTime:
		return r.EntryTime
	case domain.FieldUserID:
		return r.UserID
	case domain.FieldOffsetIFRS:
		return r.OffsetIFRS
	case domain.FieldOffsetIFRSDesc:
		return r.OffsetIFRSDesc
	case domain.FieldOffsetSyscohada:
		return r.OffsetAccount
	case domain.FieldOffsetSyscoDesc:
		return r.OffsetDesc
	}
	return ""
}
