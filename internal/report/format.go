package report

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount renders d with two decimals and thousands separators, e.g.
// "12,345.67". Negative values keep a leading minus.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	wholeValue, err := decimal.NewFromString(whole)
	if err != nil {
		return d.StringFixed(2)
	}
	grouped := humanize.BigComma(wholeValue.BigInt())

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + grouped + "." + frac
}

// FormatTotal is FormatAmount with a dollar sign, e.g. "$12,345.67".
func FormatTotal(d decimal.Decimal) string {
	s := FormatAmount(d)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}
