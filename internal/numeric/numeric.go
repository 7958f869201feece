// Package numeric centralizes the lenient string-to-number parsing used by
// the stats engine and the trade service. Every user-entered numeric field is
// stored as text; parsers here return an ok bool instead of an error so that
// incomplete or malformed entries degrade to "absent" rather than failing.
package numeric

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney extracts a float from a display string such as "+150.50 PLN" or
// "1 234,56". Everything except digits, '-', '.' and ',' is stripped, then
// ',' is treated as a decimal separator.
func ParseMoney(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == '.' || r == ',' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	cleaned := strings.ReplaceAll(b.String(), ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDecimal parses a plain decimal string with an optional comma decimal
// separator. Unlike ParseMoney it does not strip characters, so "1.5x" fails.
func ParseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatPnL renders an amount in the stored display form: explicit sign,
// two decimal places, currency suffix ("+150.50 PLN", "-50.00 PLN").
func FormatPnL(v float64, currency string) string {
	amount := decimal.NewFromFloat(v).StringFixed(2)
	if v >= 0 {
		amount = "+" + amount
	}
	return amount + " " + currency
}

// RiskPercent derives stopLoss / accountBalance * 100 with two decimal
// places. Returns "" when either input fails to parse or the balance is not
// positive.
func RiskPercent(stopLoss, accountBalance string) string {
	sl, okSL := ParseMoney(stopLoss)
	balance, okBal := ParseMoney(accountBalance)
	if !okSL || !okBal || balance <= 0 {
		return ""
	}
	risk := decimal.NewFromFloat(sl).
		Div(decimal.NewFromFloat(balance)).
		Mul(decimal.NewFromInt(100))
	return risk.StringFixed(2)
}
