package models

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for money columns.
const AmountScale = 2

// maxAmount is the exclusive bound for a NUMERIC(10,2) column.
var maxAmount = decimal.New(1, 8)

// ErrAmountOutOfRange is returned when a value does not fit NUMERIC(10,2).
var ErrAmountOutOfRange = errors.New("amount must have at most 8 integer digits and 2 decimal places")

// Amount is a fixed-point money value with two fractional digits.
type Amount struct {
	decimal.Decimal
}

// NewAmount validates d against NUMERIC(10,2) and returns it rounded to scale.
// Values with more than two significant fractional digits are rejected rather
// than rounded.
func NewAmount(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(AmountScale)) {
		return Amount{}, ErrAmountOutOfRange
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return Amount{}, ErrAmountOutOfRange
	}
	return Amount{d.Round(AmountScale)}, nil
}

// ParseAmount parses a decimal string into an Amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(d)
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String formats the amount with exactly two fractional digits.
func (a Amount) String() string { return a.StringFixed(AmountScale) }

// MarshalJSON renders the amount as a fixed two-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }
