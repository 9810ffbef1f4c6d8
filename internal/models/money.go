package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount
const MoneyScale = 4

// Money is a fixed-point amount. All balance arithmetic goes through decimal, never float64.
type Money = decimal.Decimal

// NewMoney parses a decimal string into Money rounded to MoneyScale digits.
// Negative amounts are rejected.
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return d.Round(MoneyScale), nil
}

// MustMoney is NewMoney for literals; it panics on bad input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatMoney renders m with exactly MoneyScale fractional digits
func FormatMoney(m Money) string {
	return m.StringFixed(MoneyScale)
}
