package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RollingWindowLedger is an append-only, chronologically ordered sequence of
// signed entries. All writes use the caller-supplied "now", so insertion order
// equals timestamp order. Entries are never reordered or mutated; they are
// appended at the back and evicted from the front once they age past the
// window. There is no background timer: pruning is lazy and driven by the
// timestamp supplied with each call.
type RollingWindowLedger struct {
	entries []Entry
}

// NewRollingWindowLedger creates an empty ledger.
func NewRollingWindowLedger() *RollingWindowLedger {
	return &RollingWindowLedger{}
}

// Append adds an entry timestamped at now. Pure bookkeeping, no failure mode.
func (l *RollingWindowLedger) Append(amount decimal.Decimal, now time.Time) {
	l.entries = append(l.entries, Entry{Amount: amount, Timestamp: now})
}

// Prune evicts entries that have aged out of the window. An entry timestamped
// exactly window ago is expired. Entries are chronological, so eviction stops
// at the first entry still inside the window.
func (l *RollingWindowLedger) Prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)

	i := 0
	for i < len(l.entries) && !l.entries[i].Timestamp.After(cutoff) {
		i++
	}

	if i > 0 {
		l.entries = l.entries[i:]
	}
}

// Sum prunes, then returns the signed sum of the surviving entries. Pruning
// first means expired debits and expired temporary adjustments drop out
// uniformly.
func (l *RollingWindowLedger) Sum(now time.Time, window time.Duration) decimal.Decimal {
	l.Prune(now, window)

	total := decimal.Zero
	for _, e := range l.entries {
		total = total.Add(e.Amount)
	}

	return total
}

// List prunes, then returns a copy of the surviving entries in chronological
// order.
func (l *RollingWindowLedger) List(now time.Time, window time.Duration) []Entry {
	l.Prune(now, window)

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// size returns the current entry count. Used together with truncate to
// implement compensating rollback of a failed multi-step authorization.
func (l *RollingWindowLedger) size() int {
	return len(l.entries)
}

// truncate discards entries appended after the given snapshot size.
func (l *RollingWindowLedger) truncate(n int) {
	if n >= 0 && n < len(l.entries) {
		l.entries = l.entries[:n]
	}
}
