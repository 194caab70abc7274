// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer cents; parsing goes through shopspring/decimal so
// that "12,34", "12.34" and "12.345" are all handled without float rounding.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Money is an amount in cents of the owning record's currency.
type Money struct {
	Cents int64 `json:"cents"`
}

// ParseSignedCents converts a decimal string that may be negative or zero to cents.
// Account balances and transaction amounts use this form.
func ParseSignedCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	c := d.Round(2).Shift(2)
	if c.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return c.IntPart(), nil
}

// Decimal returns the amount as a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Add returns the sum of two amounts, saturating at the int64 bounds.
func (m Money) Add(o Money) Money {
	sum := m.Cents + o.Cents
	switch {
	case o.Cents > 0 && sum < m.Cents:
		sum = math.MaxInt64
	case o.Cents < 0 && sum > m.Cents:
		sum = math.MinInt64
	}
	return Money{Cents: sum}
}

// String formats cents as "1234.56" (or "-1234.56").
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// UnmarshalJSON accepts {"cents": 1234} as well as a major-unit amount
// written as a number (12.34) or a string ("12,34" or "12.34").
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '{':
		var raw struct {
			Cents int64 `json:"cents"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		m.Cents = raw.Cents
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	cents, err := ParseSignedCents(string(data))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, data)
	}
	m.Cents = cents
	return nil
}

// MoneyFromDecimal converts a major-unit decimal to cents, rounding half away from zero.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}
