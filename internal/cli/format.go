// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fsplan/internal/money"
)

// FormatAmount formats a raw amount at a display scale, e.g. "$21.34B".
func FormatAmount(d decimal.Decimal, s money.Scale) string {
	return money.Format(d, s)
}

// FormatAxis formats a chart label without decimals, e.g. "$21B".
func FormatAxis(d decimal.Decimal, s money.Scale) string {
	return money.FormatPlaces(d, s, 0)
}

// FormatQuantity formats a whole-unit count with separators.
// e.g., 1234567 -> "1,234,567"
func FormatQuantity(d decimal.Decimal) string {
	return money.GroupDigits(d.Floor().String())
}

// FormatNumber adds comma separators to an integer.
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatShare formats a percentage that is already scaled to 0-100.
func FormatShare(pct decimal.Decimal) string {
	return pct.StringFixed(1) + "%"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatRemaining formats limit minus total and reports whether it is
// negative (over the limit).
func FormatRemaining(remaining decimal.Decimal, s money.Scale) (string, bool) {
	return money.Format(remaining, s), remaining.IsNegative()
}
