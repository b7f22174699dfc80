package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1 000"},
		{"2000", "2 000"},
		{"-1234567", "1 234 567"},
		{"1234567.6", "1 234 568"},
		{"100000", "100 000"},
		{"0.5", "0"},
		{"1.5", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.GroupThousands(dec(tt.in)))
		})
	}
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "D 300", accounting.FormatBalance(dec("300")))
	assert.Equal(t, "D 2 000", accounting.FormatBalance(dec("2000")))
	assert.Equal(t, "C 1 500", accounting.FormatBalance(dec("-1500")))
	assert.Equal(t, "C 0", accounting.FormatBalance(decimal.Zero), "zero balance is credit-side")
}

func TestFormatMovement(t *testing.T) {
	assert.Equal(t, "", accounting.FormatMovement(decimal.Zero))
	assert.Equal(t, "200", accounting.FormatMovement(dec("-200")))
	assert.Equal(t, "12 500", accounting.FormatMovement(dec("12500")))
}

func TestFrenchMonthAndPrintedDate(t *testing.T) {
	assert.Equal(t, "Janvier", accounting.FrenchMonth(time.January))
	assert.Equal(t, "Août", accounting.FrenchMonth(time.August))
	assert.Equal(t, "Décembre", accounting.FrenchMonth(time.December))
	assert.Equal(t, "05-Fev-2024", accounting.PrintedDate(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)))
}

func TestSplitAmount(t *testing.T) {
	d, c := accounting.SplitAmount(dec("500"))
	assert.True(t, d.Equal(dec("500")))
	assert.True(t, c.IsZero())

	d, c = accounting.SplitAmount(dec("-200"))
	assert.True(t, d.IsZero())
	assert.True(t, c.Equal(dec("-200")))

	d, c = accounting.SplitAmount(decimal.Zero)
	assert.True(t, d.IsZero())
	assert.True(t, c.IsZero())
}

func TestOpeningBalance(t *testing.T) {
	bilan := domain.NewOpeningBalanceEntry("C1", "2024", "101", "Capital", "", "", dec("2000"), dec("500"))
	assert.True(t, accounting.OpeningBalance("101", &bilan).Equal(dec("1500")), "credit side is stored non-positive")

	gestion := domain.NewOpeningBalanceEntry("C1", "2024", "601", "Achats", "", "", dec("1000"), decimal.Zero)
	assert.True(t, accounting.OpeningBalance("601", &gestion).IsZero())
	assert.True(t, accounting.OpeningBalance("701", &gestion).IsZero())
	assert.True(t, accounting.OpeningBalance("801", &gestion).IsZero())

	assert.True(t, accounting.OpeningBalance("101", nil).IsZero())

	d, c := accounting.OpeningSides("101", &bilan)
	assert.True(t, d.Equal(dec("2000")))
	assert.True(t, c.Equal(dec("-500")))
}

func TestSumMovements(t *testing.T) {
	d, c := accounting.SumMovements([]domain.TransactionRecord{
		{Amount: dec("500")},
		{Amount: dec("-200")},
		{Amount: decimal.Zero},
		{Amount: dec("25.5")},
	})
	assert.True(t, d.Equal(dec("525.5")))
	assert.True(t, c.Equal(dec("-200")))
}
