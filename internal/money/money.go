// Package money holds the currency rules shared by settlement and display
// code. Amounts are decimal.Decimal end to end; only the derived commission
// and display strings are rounded.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hundred = decimal.NewFromInt(100)
	printer = message.NewPrinter(language.BrazilianPortuguese)
)

// Round2 rounds half away from zero to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns round(value * pct / 100, 2).
func Percent(value, pct decimal.Decimal) decimal.Decimal {
	return Round2(value.Mul(pct).Div(hundred))
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// FormatBRL renders d as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	f, _ := Round2(d).Float64()
	return "R$ " + printer.Sprintf("%.2f", f)
}
