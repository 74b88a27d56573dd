package template

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/fsplan/internal/money"
)

// Amount is a decimal decoded from the literal text of a YAML, JSON or
// TOML value, so large or fractional amounts never pass through float64
// where the format allows it.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func (a *Amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := money.ParseStrict(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	a.Decimal = d
	return nil
}

// UnmarshalTOML receives TOML's decoded value. Floats are converted from
// their shortest representation; quote amounts that need exact digits.
func (a *Amount) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		a.Decimal = decimal.NewFromInt(x)
	case float64:
		d, err := decimal.NewFromString(strconv.FormatFloat(x, 'f', -1, 64))
		if err != nil {
			return err
		}
		a.Decimal = d
	case string:
		d, err := money.ParseStrict(x)
		if err != nil {
			return err
		}
		a.Decimal = d
	default:
		return fmt.Errorf("amount: unsupported TOML type %T", v)
	}
	return nil
}

// MarshalText keeps amounts exact when a document is re-encoded.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
