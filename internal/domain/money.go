package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value stored as BIGINT minor units (10^-2)
// to avoid floating point errors.
type Money struct {
	Amount int64 // minor units
}

// NewMoney creates a new Money instance from minor units.
func NewMoney(amount int64) Money {
	return Money{Amount: amount}
}

// ToDecimal converts the int64 minor units to a shopspring/decimal.Decimal.
func (m Money) ToDecimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount).Div(decimal.NewFromInt(100))
}

// FromDecimal converts a decimal.Decimal to int64 minor units, rounding down.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}

// String returns the display representation of the money.
func (m Money) String() string {
	return fmt.Sprintf("$%s", m.ToDecimal().StringFixed(2))
}
