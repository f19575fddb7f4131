// Package billing aggregates rental records into invoices and per-renter rollups.
//
// Prices are accumulated in integer cents so that grouped subtotals always add
// up to the grand total; they are rendered as decimal numbers with two digits.
package billing

import (
	"math"
	"strconv"
)

// Cents is an amount of money in hundredths of the currency unit.
type Cents int64

// FromPrice converts a catalog price to cents, rounding half away from zero.
func FromPrice(price float64) Cents {
	return Cents(math.Round(price * 100))
}

// Float returns the amount in currency units.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String formats the amount with two decimals.
func (c Cents) String() string {
	return strconv.FormatFloat(c.Float(), 'f', 2, 64)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}
