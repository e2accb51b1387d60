// Package core holds the domain model: cards, expenses, dates and money.
//
// Money is stored as integer cents so that sums across expenses are exact.
// Parsing and display go through shopspring/decimal, rounding half-up at the
// second decimal place.
package core

import (
	"github.com/shopspring/decimal"
)

// Money is a fixed-point monetary amount in cents.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string such as "85.25" to Money.
// Negative values and unparseable input are rejected.
func ParseAmount(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

// FromCents builds Money from an integer cent count.
func FromCents(cents int64) Money {
	return Money{Cents: cents}
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Decimal returns the amount as a decimal value in whole currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Cents).Shift(-2)
}

// String formats the amount with exactly two decimal places and a dot
// separator, e.g. "85.25".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
