package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCooldown is the delay between registering a beneficiary and that
// beneficiary becoming eligible to receive funds.
const DefaultCooldown = 24 * time.Hour

// BeneficiaryRecord pairs a transfer destination with its own nested quota and
// an activation timestamp. EnabledAt is set once at registration and never
// mutated. RemovedAt, when set, blocks future spends while preserving the
// record and its history.
type BeneficiaryRecord struct {
	Address   string
	EnabledAt time.Time
	RemovedAt *time.Time
	Quota     *QuotaTracker
}

// Enabled reports whether the activation cooldown has elapsed.
func (r *BeneficiaryRecord) Enabled(now time.Time) bool {
	return !now.Before(r.EnabledAt)
}

// Removed reports whether the beneficiary has been removed.
func (r *BeneficiaryRecord) Removed() bool {
	return r.RemovedAt != nil
}

// BeneficiaryRegistry maps beneficiary addresses to their records. Lookup is
// by address; enumeration preserves insertion order. The owning wallet holds
// the only reference to the registry and the trackers inside it.
type BeneficiaryRegistry struct {
	records map[string]*BeneficiaryRecord
	order   []string
}

// NewBeneficiaryRegistry creates an empty registry.
func NewBeneficiaryRegistry() *BeneficiaryRegistry {
	return &BeneficiaryRegistry{
		records: make(map[string]*BeneficiaryRecord),
	}
}

// Add registers a new beneficiary with a fresh quota tracker and
// EnabledAt = now + cooldown. Re-adding an existing address fails with
// ErrBeneficiaryAlreadyExists; it never overwrites cooldown, limit or history.
func (br *BeneficiaryRegistry) Add(address string, window time.Duration, limit decimal.Decimal, cooldown time.Duration, now time.Time) (*BeneficiaryRecord, error) {
	if _, ok := br.records[address]; ok {
		return nil, ErrBeneficiaryAlreadyExists
	}

	rec := &BeneficiaryRecord{
		Address:   address,
		EnabledAt: now.Add(cooldown),
		Quota:     NewQuotaTracker(limit, window),
	}

	br.records[address] = rec
	br.order = append(br.order, address)

	return rec, nil
}

// Get resolves a record by address.
func (br *BeneficiaryRegistry) Get(address string) (*BeneficiaryRecord, error) {
	rec, ok := br.records[address]
	if !ok {
		return nil, ErrBeneficiaryNotFound
	}

	return rec, nil
}

// List returns all records in insertion order.
func (br *BeneficiaryRegistry) List() []*BeneficiaryRecord {
	out := make([]*BeneficiaryRecord, 0, len(br.order))
	for _, addr := range br.order {
		out = append(out, br.records[addr])
	}

	return out
}

// SetLimit replaces the beneficiary's limit.
func (br *BeneficiaryRegistry) SetLimit(address string, newLimit decimal.Decimal) error {
	rec, err := br.Get(address)
	if err != nil {
		return err
	}

	rec.Quota.SetLimit(newLimit)

	return nil
}

// TemporarilyIncrease raises the beneficiary's effective quota by delta for
// one window length.
func (br *BeneficiaryRegistry) TemporarilyIncrease(address string, delta decimal.Decimal, now time.Time) error {
	rec, err := br.Get(address)
	if err != nil {
		return err
	}

	rec.Quota.TemporarilyIncrease(delta, now)

	return nil
}

// TemporarilyDecrease lowers the beneficiary's effective quota by delta for
// one window length.
func (br *BeneficiaryRegistry) TemporarilyDecrease(address string, delta decimal.Decimal, now time.Time) error {
	rec, err := br.Get(address)
	if err != nil {
		return err
	}

	rec.Quota.TemporarilyDecrease(delta, now)

	return nil
}

// Remove marks the beneficiary removed as of now. The record stays in the
// registry so history and listings survive; only future spends are blocked.
func (br *BeneficiaryRegistry) Remove(address string, now time.Time) error {
	rec, err := br.Get(address)
	if err != nil {
		return err
	}

	if rec.Removed() {
		return ErrBeneficiaryRemoved
	}

	at := now
	rec.RemovedAt = &at

	return nil
}

// RecordSpend debits the beneficiary's quota. The check order is load-bearing:
// existence, then removal, then enablement, then quota, each with its own
// error.
func (br *BeneficiaryRegistry) RecordSpend(address string, amount decimal.Decimal, now time.Time) error {
	rec, err := br.Get(address)
	if err != nil {
		return err
	}

	if rec.Removed() {
		return ErrBeneficiaryRemoved
	}

	if !rec.Enabled(now) {
		return ErrBeneficiaryNotEnabled
	}

	return rec.Quota.Spend(amount, now, ErrBeneficiaryLimitExceeded)
}

// restore re-inserts a persisted record during hydration.
func (br *BeneficiaryRegistry) restore(rec *BeneficiaryRecord) error {
	if _, ok := br.records[rec.Address]; ok {
		return ErrBeneficiaryAlreadyExists
	}

	br.records[rec.Address] = rec
	br.order = append(br.order, rec.Address)

	return nil
}
