package accounting

import (
	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitAmount returns the debit and credit sides of a signed amount. A zero
// amount lands on the credit side; both sides are then zero.
func SplitAmount(amount decimal.Decimal) (debit, credit decimal.Decimal) {
	if amount.IsPositive() {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount
}

// OpeningBalance returns the signed opening balance used for an account's ledger.
// Gestion accounts (leading digit 6, 7 or 8) always start at zero; a missing entry counts as zero.
func OpeningBalance(accountCode string, entry *domain.OpeningBalanceEntry) decimal.Decimal {
	if entry == nil || domain.IsGestionAccount(accountCode) {
		return decimal.Zero
	}
	return entry.Balance()
}

// OpeningSides returns the opening debit and credit kept apart, as the general balance shows them.
func OpeningSides(accountCode string, entry *domain.OpeningBalanceEntry) (debit, credit decimal.Decimal) {
	if entry == nil || domain.IsGestionAccount(accountCode) {
		return decimal.Zero, decimal.Zero
	}
	return entry.Debit, entry.Credit.Abs().Neg()
}

// SumMovements totals the debit and credit sides of a set of transactions.
func SumMovements(txns []domain.TransactionRecord) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, t := range txns {
		debit = debit.Add(t.Debit())
		credit = credit.Add(t.Credit())
	}
	return debit, credit
}
