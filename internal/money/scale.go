package money

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Scale is a display magnitude. It affects presentation and scaled input
// only; stored amounts are always raw currency.
type Scale int

const (
	Standard Scale = iota
	Thousands
	Millions
	Billions
	Trillions
)

// Scales lists every scale in ascending order.
var Scales = []Scale{Standard, Thousands, Millions, Billions, Trillions}

// DefaultScale is the scale a new session starts in.
const DefaultScale = Billions

var scaleInfo = [...]struct {
	name       string
	abbr       string
	multiplier decimal.Decimal
}{
	Standard:  {"Standard", "", decimal.NewFromInt(1)},
	Thousands: {"Thousands", "K", decimal.New(1, 3)},
	Millions:  {"Millions", "M", decimal.New(1, 6)},
	Billions:  {"Billions", "B", decimal.New(1, 9)},
	Trillions: {"Trillions", "T", decimal.New(1, 12)},
}

func (s Scale) valid() bool {
	return s >= Standard && s <= Trillions
}

// String returns the scale's display name.
func (s Scale) String() string {
	if !s.valid() {
		return fmt.Sprintf("Scale(%d)", int(s))
	}
	return scaleInfo[s].name
}

// Multiplier returns the raw amount represented by one scaled unit.
func (s Scale) Multiplier() decimal.Decimal {
	if !s.valid() {
		return scaleInfo[Standard].multiplier
	}
	return scaleInfo[s].multiplier
}

// Abbreviation returns the suffix appended to formatted amounts.
func (s Scale) Abbreviation() string {
	if !s.valid() {
		return ""
	}
	return scaleInfo[s].abbr
}

// Next cycles to the following scale, wrapping after Trillions.
func (s Scale) Next() Scale {
	return Scale((int(s) + 1) % len(Scales))
}

// ParseScale accepts a scale name or abbreviation, case-insensitively.
func ParseScale(name string) (Scale, error) {
	n := strings.TrimSpace(name)
	for _, s := range Scales {
		info := scaleInfo[s]
		if strings.EqualFold(n, info.name) || (info.abbr != "" && strings.EqualFold(n, info.abbr)) {
			return s, nil
		}
	}
	return Standard, fmt.Errorf("unknown scale %q", name)
}

// ToScaled converts a raw amount to display units.
func ToScaled(amount decimal.Decimal, s Scale) decimal.Decimal {
	return amount.Div(s.Multiplier())
}

// ToRaw converts display units back to a raw amount.
func ToRaw(scaled decimal.Decimal, s Scale) decimal.Decimal {
	return scaled.Mul(s.Multiplier())
}

// Format renders a raw amount at scale s with two decimals, e.g. "$1,234.50B".
func Format(amount decimal.Decimal, s Scale) string {
	return FormatPlaces(amount, s, CurrencyPlaces)
}

// FormatPlaces renders a raw amount at scale s with the given decimals.
// Negative amounts render as "-$1.00B".
func FormatPlaces(amount decimal.Decimal, s Scale, places int32) string {
	scaled := ToScaled(amount, s).Round(places)
	sign := ""
	if scaled.IsNegative() {
		sign = "-"
		scaled = scaled.Neg()
	}
	return sign + "$" + GroupDigits(scaled.StringFixed(places)) + s.Abbreviation()
}

// GroupDigits inserts thousands separators into the integer part of a plain
// decimal string ("1234567.89" -> "1,234,567.89").
func GroupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	intPart, frac, hasFrac := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return s
	}
	out := humanize.BigComma(n)
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
