package utils

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a decimal currency amount to integer minor units (pence, cents),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal currency amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// MinorUnitsToFloat is FromMinorUnits for JSON payloads that carry plain numbers.
func MinorUnitsToFloat(minor int64) float64 {
	return FromMinorUnits(minor).InexactFloat64()
}

// ParseAmount reads a decimal amount written by FormatAmount. Empty input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatMinorUnits renders minor units as a plain decimal string, e.g. 17000 -> "170".
func FormatMinorUnits(minor int64) string {
	f := MinorUnitsToFloat(minor)
	return strconv.FormatFloat(f, 'f', -1, 64)
}
