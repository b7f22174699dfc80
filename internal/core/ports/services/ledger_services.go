package services

import (
	"context"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
)

// LedgerService builds chronological, subtotaled account ledgers.
type LedgerService interface {
	BuildAccountLedger(in domain.LedgerInput) domain.AccountLedger
	BuildGeneralLedger(ctx context.Context, in domain.GeneralLedgerInput) (*domain.GeneralLedgerReport, error)
	BuildPartnerLedger(ctx context.Context, in domain.PartnerLedgerInput) (*domain.PartnerLedgerReport, error)
	BuildDocumentJournal(ctx context.Context, req domain.JournalRequest, lines []domain.TransactionRecord) (*domain.DocumentJournal, error)
}

// BalanceService rolls per-account measures up into trial balances.
type BalanceService interface {
	// Aggregate emits account rows followed by their 2-character and 1-character
	// group subtotals in ascending code order, plus the bilan, gestion and grand totals.
	Aggregate(accounts []domain.AccountMeasures, chart []domain.ChartEntry) (rows []domain.BalanceRow, totals []domain.BalanceRow)
	BuildGeneralBalance(ctx context.Context, in domain.GeneralBalanceInput) (*domain.GeneralBalanceReport, error)
	BuildPartnerBalance(ctx context.Context, in domain.PartnerBalanceInput) (*domain.PartnerBalanceReport, error)
}
