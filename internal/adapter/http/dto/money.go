package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/passbook/internal/domain"
)

// The ledger stores amounts as signed integers in minor units. The API
// speaks decimal major units with two fractional digits, so "1.50" on
// the wire is 150 in storage.
const minorUnitExponent = 2

// toMinorUnits converts a decimal amount to minor units. Amounts with
// more than two fractional digits do not round silently.
func toMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(minorUnitExponent)
	if !shifted.IsInteger() {
		return 0, domain.ErrInvalidAmount
	}

	return shifted.IntPart(), nil
}

// fromMinorUnits renders minor units as a decimal amount.
func fromMinorUnits(m int64) decimal.Decimal {
	return decimal.New(m, -minorUnitExponent)
}
