// Package customer contains the loyalty-ledger value objects. The dispatch
// subsystem never overwrites a customer's ledger with absolute values; it only
// applies signed deltas, so delivering and then cancelling the same order nets
// to exactly zero.
package customer

import (
	"github.com/shopspring/decimal"
)

// LedgerDelta is a signed mutation of a customer's loyalty ledger: points
// balance, lifetime spend, and completed-order count. The zero value is a
// no-op delta.
type LedgerDelta struct {
	Points      int
	TotalSpent  decimal.Decimal
	TotalOrders int
}

// Negate returns the delta that exactly reverses d. Applying d and then
// d.Negate() leaves the ledger untouched.
func (d LedgerDelta) Negate() LedgerDelta {
	return LedgerDelta{
		Points:      -d.Points,
		TotalSpent:  d.TotalSpent.Neg(),
		TotalOrders: -d.TotalOrders,
	}
}

// IsZero reports whether applying the delta would change nothing.
func (d LedgerDelta) IsZero() bool {
	return d.Points == 0 && d.TotalSpent.IsZero() && d.TotalOrders == 0
}
