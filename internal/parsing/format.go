package parsing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatLek renders an amount the way Albanian receipts print it: dots
// group thousands, a comma separates qintarka, and the L marker follows.
// Whole amounts are printed without decimals.
func FormatLek(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole := d.Truncate(0)
	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if frac := d.Sub(whole); !frac.IsZero() {
		b.WriteByte(',')
		b.WriteString(strings.TrimPrefix(frac.StringFixed(2), "0."))
	}
	return sign + b.String() + " L"
}
