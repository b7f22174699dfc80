package accounting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var frenchMonths = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

var frenchMonthsShort = [...]string{
	"Jan", "Fev", "Mar", "Avr", "Mai", "Juin",
	"Juil", "Aou", "Sep", "Oct", "Nov", "Dec",
}

// FrenchMonth returns the French month name used on subtotal rows.
func FrenchMonth(m time.Month) string {
	return frenchMonths[m-1]
}

// PrintedDate formats a date as "05-Fev-2024" for sheet headers.
func PrintedDate(t time.Time) string {
	return t.Format("02") + "-" + frenchMonthsShort[t.Month()-1] + "-" + t.Format("2006")
}

// GroupThousands renders the magnitude of d rounded to a whole number, with a
// space between thousands groups: 1234567.6 -> "1 234 568".
func GroupThousands(d decimal.Decimal) string {
	digits := d.Abs().RoundBank(0).StringFixed(0)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatBalance renders a running balance as "D <n>" when positive and "C <n>" otherwise.
func FormatBalance(d decimal.Decimal) string {
	if d.IsPositive() {
		return "D " + GroupThousands(d)
	}
	return "C " + GroupThousands(d)
}

// FormatMovement renders a debit or credit movement as a grouped magnitude, blank when zero.
func FormatMovement(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return GroupThousands(d)
}
