// Package money provides the decimal monetary type used throughout the
// payroll engine. Every statutory amount is exact to the cent; native binary
// floats are never used for money.
package money

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money wraps decimal.Decimal so that calculators and the engine never touch
// shopspring/decimal directly and so cent-rounding stays in one place.
type Money struct {
	decimal.Decimal
}

// New creates a Money value from a float64. Reserved for constants and test
// fixtures; calculation inputs should arrive as strings via NewFromString.
func New(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewFromDecimal wraps an existing decimal.Decimal.
func NewFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewFromString parses a decimal string, the wire representation for every
// monetary field per the engine's input/output contract.
func NewFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// NewFromInt creates a whole-dollar Money value.
func NewFromInt(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// RoundCents rounds to two decimal places, half-away-from-zero (shopspring's
// default Round semantics), the rule CRA's formulas require at the last step
// of every line item.
func (m Money) RoundCents() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a per-period amount to an annual one given periods/year.
func (m Money) Annual(periodsPerYear int) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(int64(periodsPerYear)))}
}

// PerPeriod converts an annual amount to a per-period one.
func (m Money) PerPeriod(periodsPerYear int) Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(int64(periodsPerYear)))}
}

func (m Money) Add(other Money) Money { return Money{m.Decimal.Add(other.Decimal)} }
func (m Money) Sub(other Money) Money { return Money{m.Decimal.Sub(other.Decimal)} }
func (m Money) Mul(factor decimal.Decimal) Money { return Money{m.Decimal.Mul(factor)} }
func (m Money) Div(factor decimal.Decimal) Money { return Money{m.Decimal.Div(factor)} }

func (m Money) GreaterThan(other Money) bool        { return m.Decimal.GreaterThan(other.Decimal) }
func (m Money) GreaterThanOrEqual(other Money) bool { return m.Decimal.GreaterThanOrEqual(other.Decimal) }
func (m Money) LessThan(other Money) bool           { return m.Decimal.LessThan(other.Decimal) }
func (m Money) LessThanOrEqual(other Money) bool    { return m.Decimal.LessThanOrEqual(other.Decimal) }
func (m Money) Equal(other Money) bool              { return m.Decimal.Equal(other.Decimal) }
func (m Money) IsZero() bool                        { return m.Decimal.IsZero() }
func (m Money) IsPositive() bool                    { return m.Decimal.IsPositive() }
func (m Money) IsNegative() bool                    { return m.Decimal.IsNegative() }

// Min returns the smaller of two Money amounts.
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two Money amounts.
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Floor0 returns zero if m is negative, otherwise m.
func Floor0(m Money) Money {
	if m.IsNegative() {
		return Zero()
	}
	return m
}

// Zero returns a zero Money amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// MarshalJSON emits the amount as a decimal string per the wire contract in
// spec.md §6 ("Every monetary field is a string representing a decimal with
// exactly two visible fractional digits").
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.RoundCents().String() + `"`), nil
}

// UnmarshalJSON parses a quoted decimal string into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*m = Zero()
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// UnmarshalYAML parses a decimal-string YAML scalar into Money, matching how
// rate and threshold fields are stored on disk (numeric fields are decimal
// strings to avoid lossy binary-float parsing).
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*m = Zero()
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// MarshalYAML emits the amount as a decimal string scalar.
func (m Money) MarshalYAML() (interface{}, error) {
	return m.RoundCents().String(), nil
}
