// Package money is the decimal arithmetic layer for every amount in fsplan.
//
// All currency and quantity math goes through shopspring/decimal; nothing in
// the planner touches binary floating point for money.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of significant digits kept by division.
const Precision = 50

// CurrencyPlaces is the number of decimal places currency amounts round to.
const CurrencyPlaces = 2

func init() {
	decimal.DivisionPrecision = Precision
}

// Zero is the additive identity.
var Zero = decimal.Zero

// Parse converts raw collaborator input into a decimal. Strings may carry a
// leading "$", thousands separators and surrounding whitespace. Empty or
// unparseable input yields zero; Parse never fails.
func Parse(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return Zero
		}
		return *x
	case string:
		return parseString(x)
	case json.Number:
		return parseString(x.String())
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	default:
		return Zero
	}
}

func parseString(s string) decimal.Decimal {
	d, err := ParseStrict(s)
	if err != nil {
		return Zero
	}
	return d
}

// ParseStrict is Parse for strings that reports malformed input instead of
// mapping it to zero. An empty string is still zero.
func ParseStrict(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// NonNegative clamps negative values to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// FloorDiv returns floor(a / b), computed exactly. A zero divisor yields zero
// rather than an undefined result.
func FloorDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	q, r := a.QuoRem(b, 0)
	// QuoRem truncates toward zero; step down when the true quotient is negative.
	if !r.IsZero() && (a.Sign() < 0) != (b.Sign() < 0) {
		q = q.Sub(decimal.NewFromInt(1))
	}
	return q
}

// Round rounds to places decimal places, halves away from zero.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundCurrency rounds to whole cents.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// Whole truncates to an integer count of units, never below zero.
func Whole(d decimal.Decimal) decimal.Decimal {
	return NonNegative(d.Floor())
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
