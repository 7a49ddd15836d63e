package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry represents a single signed ledger entry inside the rolling window.
// Positive amounts are debits (spends and temporary quota decreases); negative
// amounts are credits (temporary quota increases). Entries are immutable once
// appended.
type Entry struct {
	Amount    decimal.Decimal
	Timestamp time.Time
}

// IsDebit reports whether the entry reduces the remaining quota.
func (e Entry) IsDebit() bool {
	return e.Amount.IsPositive()
}
