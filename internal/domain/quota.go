package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultWindow is the lookback duration over which spend accumulates for
// quota purposes.
const DefaultWindow = 24 * time.Hour

// QuotaTracker enforces a net-spend limit over a rolling window. Debits and
// temporary limit adjustments are unified as signed ledger entries under one
// summation, so an adjustment's effect is bounded to exactly one window
// length, the same way ordinary spends expire.
type QuotaTracker struct {
	limit  decimal.Decimal
	window time.Duration
	ledger *RollingWindowLedger
}

// NewQuotaTracker creates a tracker with the given limit and window. A
// non-positive window falls back to DefaultWindow.
func NewQuotaTracker(limit decimal.Decimal, window time.Duration) *QuotaTracker {
	if window <= 0 {
		window = DefaultWindow
	}

	return &QuotaTracker{
		limit:  limit,
		window: window,
		ledger: NewRollingWindowLedger(),
	}
}

// Limit returns the current limit.
func (q *QuotaTracker) Limit() decimal.Decimal {
	return q.limit
}

// Window returns the rolling window duration.
func (q *QuotaTracker) Window() time.Duration {
	return q.window
}

// Remaining returns limit minus the in-window net spend. The result is signed
// and may be negative, e.g. after a temporary decrease exceeding unspent
// quota; a negative remaining permits no further debit until it decays back
// above the requested amount.
func (q *QuotaTracker) Remaining(now time.Time) decimal.Decimal {
	return q.limit.Sub(q.ledger.Sum(now, q.window))
}

// Spend records a debit of amount, or returns errOnExceed without any
// mutation when amount exceeds the remaining quota. The check runs against
// the pre-append remaining, so the new entry cannot influence its own
// admission.
func (q *QuotaTracker) Spend(amount decimal.Decimal, now time.Time, errOnExceed error) error {
	if amount.GreaterThan(q.Remaining(now)) {
		return errOnExceed
	}

	q.ledger.Append(amount, now)

	return nil
}

// SetLimit replaces the limit. Existing entries are not revalidated.
func (q *QuotaTracker) SetLimit(newLimit decimal.Decimal) {
	q.limit = newLimit
}

// TemporarilyIncrease raises the effective quota by delta for one window
// length. Implemented as a credit entry that self-expires; no separate expiry
// bookkeeping exists.
func (q *QuotaTracker) TemporarilyIncrease(delta decimal.Decimal, now time.Time) {
	q.ledger.Append(delta.Neg(), now)
}

// TemporarilyDecrease lowers the effective quota by delta for one window
// length.
func (q *QuotaTracker) TemporarilyDecrease(delta decimal.Decimal, now time.Time) {
	q.ledger.Append(delta, now)
}

// Transfers returns the in-window entries in chronological order.
func (q *QuotaTracker) Transfers(now time.Time) []Entry {
	return q.ledger.List(now, q.window)
}

// restoreEntry re-appends a persisted entry during hydration. The caller must
// feed entries in chronological order.
func (q *QuotaTracker) restoreEntry(amount decimal.Decimal, at time.Time) {
	q.ledger.Append(amount, at)
}
