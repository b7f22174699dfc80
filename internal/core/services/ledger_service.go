package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/apperrors"
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	BaseService
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(options ...LedgerServiceOption) portssvc.LedgerService {
	svc := &ledgerService{}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerService interface
var _ portssvc.LedgerService = (*ledgerService)(nil)

// BuildAccountLedger builds the ledger of one account: an opening row, the
// transactions in posting-date order with a subtotal after each month, a total
// row and a closing row.
func (s *ledgerService) BuildAccountLedger(in domain.LedgerInput) domain.AccountLedger {
	txns := selectAccountLines(in)

	var opening decimal.Decimal
	if in.Partner {
		opening = decimal.Zero
		if in.Opening != nil {
			opening = in.Opening.Balance()
		}
	} else {
		opening = accounting.OpeningBalance(in.AccountCode, in.Opening)
	}

	ledger := domain.AccountLedger{
		AccountCode:      in.AccountCode,
		Description:      in.Description,
		Class:            domain.ClassifyAccount(in.AccountCode),
		OpeningBalance:   opening,
		TotalDebit:       decimal.Zero,
		TotalCredit:      decimal.Zero,
		TransactionCount: len(txns),
	}
	if in.Partner {
		ledger.Class = domain.ClassOther
	}
	if in.Opening != nil {
		ledger.IFRSAccount = in.Opening.IFRSAccount
		ledger.IFRSDescription = in.Opening.IFRSDescription
	}
	if ledger.IFRSAccount == "" && len(txns) > 0 {
		ledger.IFRSAccount = txns[0].IFRSAccount
		ledger.IFRSDescription = txns[0].IFRSAccountDesc
	}

	rows := make([]domain.LedgerRow, 0, len(txns)+16)
	rows = append(rows, domain.LedgerRow{
		Kind:    domain.RowOpening,
		Date:    in.Period.Start,
		Label:   "REPORT AU " + in.Period.Start.Format(domain.ReportDateLayout),
		Debit:   decimal.Zero,
		Credit:  decimal.Zero,
		Balance: opening,
	})

	labelFallback := in.Description
	if in.Partner {
		labelFallback = ""
	}

	running := opening
	monthDebit, monthCredit := decimal.Zero, decimal.Zero
	for i, t := range txns {
		debit, credit := t.Debit(), t.Credit()
		running = running.Add(debit).Add(credit)
		monthDebit = monthDebit.Add(debit)
		monthCredit = monthCredit.Add(credit)
		ledger.TotalDebit = ledger.TotalDebit.Add(debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(credit)

		rows = append(rows, transactionRow(t, debit, credit, running, labelFallback, in.OffsetAccounts))

		if i == len(txns)-1 || !sameMonth(t.PostingDate, txns[i+1].PostingDate) {
			rows = append(rows, domain.LedgerRow{
				Kind:         domain.RowSubtotal,
				Date:         t.PostingDate,
				DocumentType: accounting.FrenchMonth(t.PostingDate.Month()),
				Label:        "Sous-Total",
				Debit:        monthDebit,
				Credit:       monthCredit,
				Balance:      running,
				Month:        t.PostingDate.Month(),
			})
			monthDebit, monthCredit = decimal.Zero, decimal.Zero
		}
	}

	ledger.ClosingBalance = running
	if len(txns) > 0 {
		rows = append(rows, domain.LedgerRow{
			Kind:      domain.RowTotal,
			Date:      in.Period.End,
			Label:     fmt.Sprintf("%d ligne(s)", len(txns)),
			Debit:     ledger.TotalDebit,
			Credit:    ledger.TotalCredit,
			Balance:   running,
			LineCount: len(txns),
		})
	}
	rows = append(rows, domain.LedgerRow{
		Kind:         domain.RowClosing,
		Date:         in.Period.End,
		DocumentType: "SOLDE",
		Label:        "SOLDE AU " + in.Period.End.Format(domain.ReportDateLayout),
		Debit:        decimal.Zero,
		Credit:       decimal.Zero,
		Balance:      running,
	})

	ledger.Rows = rows
	return ledger
}

// selectAccountLines keeps the lines of the input account within the period,
// ordered by posting date with ties kept in load order.
func selectAccountLines(in domain.LedgerInput) []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, 0, len(in.Transactions))
	for _, t := range in.Transactions {
		code := t.SyscohadaAccount
		if in.Partner {
			code = t.PartnerID
		}
		if code != in.AccountCode {
			continue
		}
		if !in.Period.Start.IsZero() && !in.Period.Contains(t.PostingDate) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PostingDate.Equal(out[j].PostingDate) {
			return out[i].PostingDate.Before(out[j].PostingDate)
		}
		return out[i].LoadOrder < out[j].LoadOrder
	})
	return out
}

func transactionRow(t domain.TransactionRecord, debit, credit, balance decimal.Decimal, labelFallback string, offsets map[string]domain.OpeningBalanceEntry) domain.LedgerRow {
	row := domain.LedgerRow{
		Kind:           domain.RowTransaction,
		Date:           t.PostingDate,
		DocumentNumber: t.DocumentNumber,
		DocumentType:   t.DocumentType,
		Designation:    t.Designation,
		Label:          t.Label(labelFallback),
		Reference:      t.Reference,
		FiscalYear:     t.FiscalYear,
		IFRSAccount:    t.IFRSAccount,
		IFRSDesc:       t.IFRSAccountDesc,
		EntryDate:      t.EntryDate,
		EntryTime:      t.EntryTime,
		UserID:         t.UserID,
		OffsetIFRS:     t.OffsetAccount,
		OffsetIFRSDesc: t.OffsetAccountDesc,
		Debit:          debit,
		Credit:         credit,
		Balance:        balance,
	}
	if offset, ok := offsets[t.OffsetAccount]; ok {
		row.OffsetIFRSDesc = offset.IFRSDescription
		row.OffsetAccount = offset.SyscohadaAccount
		row.OffsetDesc = offset.Description
	}
	return row
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// BuildGeneralLedger builds one ledger per account found in the opening balance
// or the transactions, restricted to the bank accounts when requested.
func (s *ledgerService) BuildGeneralLedger(ctx context.Context, in domain.GeneralLedgerInput) (*domain.GeneralLedgerReport, error) {
	txns, openings := restrictToAccounts(in.Transactions, in.Openings, in.BankAccounts)
	txns = inPeriod(txns, in.Period)

	openingByCode := indexOpenings(openings)
	offsets := offsetIndex(in.Openings)
	byCode := make(map[string][]domain.TransactionRecord)
	for _, t := range txns {
		byCode[t.SyscohadaAccount] = append(byCode[t.SyscohadaAccount], t)
	}

	report := &domain.GeneralLedgerReport{
		Title:       in.Title,
		CompanyCode: in.CompanyCode,
		CompanyName: in.CompanyName,
		Period:      in.Period,
	}

	for _, code := range accountCodes(openingByCode, byCode) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var opening *domain.OpeningBalanceEntry
		description := ""
		if e, ok := openingByCode[code]; ok {
			opening = &e
			description = e.Description
		}

		ledger := s.BuildAccountLedger(domain.LedgerInput{
			AccountCode:    code,
			Description:    description,
			Transactions:   byCode[code],
			Opening:        opening,
			Period:         in.Period,
			OffsetAccounts: offsets,
		})
		report.Ledgers = append(report.Ledgers, ledger)

		summary := domain.LedgerSummaryRow{
			AccountCode:    code,
			Description:    description,
			OpeningBalance: ledger.OpeningBalance,
			TotalDebit:     ledger.TotalDebit,
			TotalCredit:    ledger.TotalCredit,
			ClosingBalance: ledger.ClosingBalance,
		}
		// Accounts outside classes 1-8 keep their own sheet only.
		switch ledger.Class {
		case domain.ClassBilan:
			report.Bilan = append(report.Bilan, summary)
		case domain.ClassGestion:
			report.Gestion = append(report.Gestion, summary)
		}
	}

	s.LogInfo(ctx, "General ledger built",
		slog.String("company_code", in.CompanyCode),
		slog.Int("accounts", len(report.Ledgers)),
		slog.Int("transactions", len(txns)))
	return report, nil
}

// BuildPartnerLedger builds one sub-ledger per vendor or customer with movements in the period.
func (s *ledgerService) BuildPartnerLedger(ctx context.Context, in domain.PartnerLedgerInput) (*domain.PartnerLedgerReport, error) {
	txns := inPeriod(in.Transactions, in.Period)

	openingByPartner := indexOpenings(in.Openings)
	byPartner := make(map[string][]domain.TransactionRecord)
	for _, t := range txns {
		if t.PartnerID == "" {
			continue
		}
		byPartner[t.PartnerID] = append(byPartner[t.PartnerID], t)
	}

	report := &domain.PartnerLedgerReport{
		Title:       in.Title,
		CompanyCode: in.CompanyCode,
		CompanyName: in.CompanyName,
		PartnerType: in.PartnerType,
		Period:      in.Period,
	}

	for _, id := range accountCodes(openingByPartner, byPartner) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines := byPartner[id]
		if len(lines) == 0 {
			continue
		}

		var opening *domain.OpeningBalanceEntry
		name := lines[0].PartnerName
		if e, ok := openingByPartner[id]; ok {
			opening = &e
			if e.Description != "" {
				name = e.Description
			}
		}

		report.Ledgers = append(report.Ledgers, s.BuildAccountLedger(domain.LedgerInput{
			AccountCode:  id,
			Description:  name,
			Transactions: lines,
			Opening:      opening,
			Period:       in.Period,
			Partner:      true,
		}))
	}

	s.LogInfo(ctx, "Partner ledger built",
		slog.String("company_code", in.CompanyCode),
		slog.String("partner_type", string(in.PartnerType)),
		slog.Int("partners", len(report.Ledgers)))
	return report, nil
}

// BuildDocumentJournal gathers the lines of one document number into its accounting slip.
func (s *ledgerService) BuildDocumentJournal(ctx context.Context, req domain.JournalRequest, lines []domain.TransactionRecord) (*domain.DocumentJournal, error) {
	matched := make([]domain.TransactionRecord, 0)
	for _, l := range lines {
		if strings.TrimSpace(l.DocumentNumber) == strings.TrimSpace(req.DocumentNumber) {
			matched = append(matched, l)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("Aucune correspondance pour la pièce %s: %w", req.DocumentNumber, apperrors.ErrNotFound)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].LoadOrder < matched[j].LoadOrder
	})

	first := matched[0]
	journal := &domain.DocumentJournal{
		CompanyCode:    req.CompanyCode,
		CompanyName:    req.CompanyName,
		Year:           req.Year,
		DocumentNumber: req.DocumentNumber,
		DocumentType:   first.DocumentType,
		PostingDate:    first.PostingDate,
		EntryDate:      first.EntryDate,
		EntryTime:      first.EntryTime,
		UserID:         first.UserID,
		Lines:          matched,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	journal.TotalDebit, journal.TotalCredit = accounting.SumMovements(matched)

	s.LogDebug(ctx, "Document journal built",
		slog.String("document_number", req.DocumentNumber),
		slog.Int("lines", len(matched)))
	return journal, nil
}

// restrictToAccounts keeps only the listed SYSCOHADA codes when accounts is non-nil.
func restrictToAccounts(txns []domain.TransactionRecord, openings []domain.OpeningBalanceEntry, accounts []string) ([]domain.TransactionRecord, []domain.OpeningBalanceEntry) {
	if accounts == nil {
		return txns, openings
	}
	allowed := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		allowed[strings.TrimSpace(a)] = struct{}{}
	}

	keptTxns := make([]domain.TransactionRecord, 0, len(txns))
	for _, t := range txns {
		if _, ok := allowed[t.SyscohadaAccount]; ok {
			keptTxns = append(keptTxns, t)
		}
	}
	keptOpenings := make([]domain.OpeningBalanceEntry, 0, len(openings))
	for _, o := range openings {
		if _, ok := allowed[o.SyscohadaAccount]; ok {
			keptOpenings = append(keptOpenings, o)
		}
	}
	return keptTxns, keptOpenings
}

func inPeriod(txns []domain.TransactionRecord, p domain.Period) []domain.TransactionRecord {
	if p.Start.IsZero() {
		return txns
	}
	out := make([]domain.TransactionRecord, 0, len(txns))
	for _, t := range txns {
		if p.Contains(t.PostingDate) {
			out = append(out, t)
		}
	}
	return out
}

// indexOpenings maps account codes to their opening entry. The first entry of
// a code wins; the empty-account sentinel is dropped.
func indexOpenings(openings []domain.OpeningBalanceEntry) map[string]domain.OpeningBalanceEntry {
	out := make(map[string]domain.OpeningBalanceEntry, len(openings))
	for _, o := range openings {
		code := strings.TrimSpace(o.SyscohadaAccount)
		if code == "" || code == domain.EmptyAccountSentinel {
			continue
		}
		if _, seen := out[code]; !seen {
			out[code] = o
		}
	}
	return out
}

// offsetIndex maps IFRS codes to the opening entry resolving the contrepartie, first entry wins.
func offsetIndex(openings []domain.OpeningBalanceEntry) map[string]domain.OpeningBalanceEntry {
	out := make(map[string]domain.OpeningBalanceEntry, len(openings))
	for _, o := range openings {
		if o.IFRSAccount == "" {
			continue
		}
		if _, seen := out[o.IFRSAccount]; !seen {
			out[o.IFRSAccount] = o
		}
	}
	return out
}

// accountCodes returns the sorted union of the opening and transaction codes.
func accountCodes(openings map[string]domain.OpeningBalanceEntry, txns map[string][]domain.TransactionRecord) []string {
	set := make(map[string]struct{}, len(openings)+len(txns))
	for code := range openings {
		set[code] = struct{}{}
	}
	for code := range txns {
		if code == "" || code == domain.EmptyAccountSentinel {
			continue
		}
		set[code] = struct{}{}
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
