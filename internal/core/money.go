// Package core holds the operator and expense domain types and the
// statistics computed over them.
//
// Amounts are kept as integer cents so sums stay exact; they are only
// turned into decimals when rendered.
package core

import (
	"fmt"
	"strconv"
)

// Money is an amount in cents.
type Money struct {
	Cents int64
}

// Add returns the sum of m and o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Float returns the amount as a decimal value for display and averaging.
// Note: use cents for sums to avoid floating-point drift.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals, e.g. "1234567.89".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

