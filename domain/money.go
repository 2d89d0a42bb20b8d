package domain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Bounds on amounts accepted from callers.
const (
	// MaxAmount is the largest magnitude of a single entered amount.
	MaxAmount = 10_000_000
	// MaxScale is the most decimal places an amount may carry.
	MaxScale = 20

	// maxIntegerDigits bounds values the engine will do arithmetic on.
	// Sums of many MaxAmount entries stay well below it.
	maxIntegerDigits = 15
)

var ErrAmountOutOfRange = errors.New("amount out of range")

var maxAmount = decimal.NewFromInt(MaxAmount)

// Money is a US dollar amount held at full decimal precision.
// It encodes to JSON as a bare number with two decimals.
type Money struct {
	decimal.Decimal
}

// Dollars builds a Money from a float amount.
func Dollars(v float64) Money {
	return Money{decimal.NewFromFloat(v)}
}

// MoneyOf wraps a decimal value.
func MoneyOf(d decimal.Decimal) Money {
	return Money{d}
}

// ParseAmount parses a decimal string such as "1200" or "0.30" and checks
// it against MaxAmount and MaxScale.
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	return checkedAmount(d)
}

// checkedAmount rejects amounts whose exponent would make rounding or
// formatting blow up, before anything compares or prints them.
func checkedAmount(d decimal.Decimal) (Money, error) {
	if d.IsZero() {
		return Money{}, nil
	}
	if !representable(d) || d.Abs().GreaterThan(maxAmount) {
		return Money{}, fmt.Errorf("%w: magnitude must not exceed %d with at most %d decimal places",
			ErrAmountOutOfRange, MaxAmount, MaxScale)
	}
	return Money{d}, nil
}

func representable(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -MaxScale {
		return false
	}
	return int64(d.NumDigits())+exp <= maxIntegerDigits
}

// Representable reports whether the amount is small and coarse enough to
// round and format in bounded time.
func (m Money) Representable() bool {
	return representable(m.Decimal)
}

// Cents rounds the amount to two decimal places.
func (m Money) Cents() Money {
	return Money{m.Round(2)}
}

// MarshalJSON writes the amount as a JSON number, e.g. 1200.00.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null. Null and the
// empty string decode to zero. Amounts beyond MaxAmount or MaxScale are
// rejected.
func (m *Money) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		m.Decimal = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := checkedAmount(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalYAML keeps rule tables human readable.
func (m Money) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML reads plain scalars such as 600 or "0.30". A null or
// empty scalar decodes to zero.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" || value.Value == "" {
		m.Decimal = decimal.Zero
		return nil
	}
	v, err := ParseAmount(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*m = v
	return nil
}
