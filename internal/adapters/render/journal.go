package render

import (
	"context"
	"fmt"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

const (
	journalSheet = "Fiche Comptable"
	// Document lines start below the two header rows of the line table.
	journalFirstLine = 13
)

// RenderDocumentJournal writes the accounting slip of one document: header
// block, one line per posting, the totals and the signature boxes.
func (r *ExcelRenderer) RenderDocumentJournal(ctx context.Context, path string, journal *domain.DocumentJournal) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.close()

	s := wb.sheet(journalSheet)
	s.merge(1, 1, 7, 1, fmt.Sprintf("%s - %s", journal.CompanyCode, journal.CompanyName))
	s.style(1, 1, 7, 1, wb.styles.title)
	s.set(4, 2, "Fiche Comptable")

	var reference, designation string
	if len(journal.Lines) > 0 {
		reference = journal.Lines[0].Reference
		designation = journal.Lines[0].Designation
	}
	header := []struct {
		label string
		value string
	}{
		{"Numero:", journal.DocumentNumber},
		{"Date Comptable:", formatDate(journal.PostingDate)},
		{"Période:", journal.PostingDate.Format("01/2006")},
		{"Reference:", reference},
		{"Journal", designation},
	}
	for i, h := range header {
		s.set(6, 4+i, h.label)
		s.style(6, 4+i, 6, 4+i, wb.styles.bold)
		s.set(7, 4+i, h.value)
	}

	s.merge(1, 11, 2, 11, "Details Compte Groupe")
	s.merge(3, 11, 4, 11, "Details Compte OHADA")
	s.set(5, 11, "Narration/Description")
	s.merge(6, 11, 7, 11, "Montant en Devise Locale")
	for i, label := range []string{"Compte Groupe", "Libelle Compte Groupe", "Compte OHADA", "Libelle Compte OHADA", "Narration", "Debit", "Credit"} {
		s.set(i+1, 12, label)
	}
	s.style(1, 11, 7, 12, wb.styles.boxed)

	row := journalFirstLine
	for _, line := range journal.Lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.set(1, row, line.IFRSAccount)
		s.set(2, row, line.IFRSAccountDesc)
		s.set(3, row, line.SyscohadaAccount)
		s.set(5, row, line.Text)
		s.amount(6, row, line.Debit())
		s.amount(7, row, line.Credit())
		s.style(6, row, 7, row, wb.styles.number)
		row++
	}

	s.set(5, row, "Montant Total")
	s.style(5, row, 5, row, wb.styles.boxed)
	s.set(6, row, journal.TotalDebit.Abs().InexactFloat64())
	s.set(7, row, journal.TotalCredit.Abs().InexactFloat64())
	s.style(6, row, 7, row, wb.styles.number)

	signatures := []struct {
		col   int
		title string
		name  string
	}{
		{1, "Préparé Par:", "Nom:"},
		{3, "Vérifié Par:", "Nom:"},
		{5, "Autorisé par:", "Nom:"},
		{7, "Reçu Par:", "Nom Société:"},
	}
	for _, sig := range signatures {
		s.set(sig.col, row+2, sig.title)
		s.set(sig.col, row+3, sig.name)
		s.style(sig.col, row+2, sig.col, row+3, wb.styles.bold)
	}
	s.width(1, 1, 16)
	s.width(2, 2, 34)
	s.width(3, 4, 18)
	s.width(5, 5, 40)
	s.width(6, 7, 18)

	return wb.save(ctx, path)
}
