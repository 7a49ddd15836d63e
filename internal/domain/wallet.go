package domain

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Wallet composes a wallet-wide quota tracker with a beneficiary registry and
// authorizes outbound transfers as a single atomic unit. All mutating calls
// are serialized by a per-wallet mutex; separate wallets never share state and
// may proceed in parallel.
type Wallet struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	quota         *QuotaTracker
	beneficiaries *BeneficiaryRegistry
}

// NewWallet creates a wallet with the given spending limit and window.
func NewWallet(id string, limit decimal.Decimal, window time.Duration, createdAt time.Time) *Wallet {
	return &Wallet{
		ID:            id,
		CreatedAt:     createdAt,
		quota:         NewQuotaTracker(limit, window),
		beneficiaries: NewBeneficiaryRegistry(),
	}
}

// BeneficiaryStatus is a point-in-time snapshot of one beneficiary. Returned
// by value so callers cannot alias the wallet's internal trackers.
type BeneficiaryStatus struct {
	Address   string
	EnabledAt time.Time
	RemovedAt *time.Time
	Limit     decimal.Decimal
	Remaining decimal.Decimal
}

// AuthorizeTransfer runs the two quota checks and, if both pass, the execute
// callback (the external balance-transfer primitive plus any durable write).
// A failure at any step leaves all ledgers exactly as they were before the
// call: the wallet-level append is undone by truncating back to a snapshot
// taken before the spend, and an execute failure additionally undoes the
// beneficiary-level append.
//
// The wallet-level check runs first, so an insufficient wallet quota is
// reported before any beneficiary resolution; with wallet quota available, a
// missing beneficiary surfaces as ErrBeneficiaryNotFound rather than
// ErrLimitExceeded.
func (w *Wallet) AuthorizeTransfer(beneficiary string, amount decimal.Decimal, now time.Time, execute func() error) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Prune before snapshotting. Spend prunes lazily, and entries aging out
	// between the snapshot and the spend would leave the snapshot larger than
	// the ledger, turning the rollback truncate into a no-op.
	w.quota.ledger.Prune(now, w.quota.window)
	walletMark := w.quota.ledger.size()

	if err := w.quota.Spend(amount, now, ErrLimitExceeded); err != nil {
		return err
	}

	if err := w.beneficiaries.RecordSpend(beneficiary, amount, now); err != nil {
		w.quota.ledger.truncate(walletMark)
		return err
	}

	if execute != nil {
		if err := execute(); err != nil {
			// The beneficiary spend is the last entry appended under this
			// lock, so dropping one entry undoes exactly that spend.
			rec, _ := w.beneficiaries.Get(beneficiary)
			rec.Quota.ledger.truncate(rec.Quota.ledger.size() - 1)
			w.quota.ledger.truncate(walletMark)

			return err
		}
	}

	return nil
}

// Limit returns the wallet-wide limit.
func (w *Wallet) Limit() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.quota.Limit()
}

// Window returns the wallet's rolling window.
func (w *Wallet) Window() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.quota.Window()
}

// Remaining returns the wallet-wide remaining quota as of now.
func (w *Wallet) Remaining(now time.Time) decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.quota.Remaining(now)
}

// Transfers returns the wallet-level in-window entries.
func (w *Wallet) Transfers(now time.Time) []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.quota.Transfers(now)
}

// SetLimit replaces the wallet-wide limit.
func (w *Wallet) SetLimit(newLimit decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.quota.SetLimit(newLimit)
}

// TemporarilyIncrease raises the wallet's effective quota by delta for one
// window length.
func (w *Wallet) TemporarilyIncrease(delta decimal.Decimal, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.quota.TemporarilyIncrease(delta, now)
}

// TemporarilyDecrease lowers the wallet's effective quota by delta for one
// window length.
func (w *Wallet) TemporarilyDecrease(delta decimal.Decimal, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.quota.TemporarilyDecrease(delta, now)
}

// AddBeneficiary registers a beneficiary with its own quota and cooldown.
func (w *Wallet) AddBeneficiary(address string, limit decimal.Decimal, cooldown time.Duration, now time.Time) (BeneficiaryStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.beneficiaries.Add(address, w.quota.Window(), limit, cooldown, now)
	if err != nil {
		return BeneficiaryStatus{}, err
	}

	return w.statusOf(rec, now), nil
}

// RemoveBeneficiary disables future spends to the address while preserving
// the record and its transfer history.
func (w *Wallet) RemoveBeneficiary(address string, now time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.beneficiaries.Remove(address, now)
}

// Beneficiary returns a snapshot of one beneficiary.
func (w *Wallet) Beneficiary(address string, now time.Time) (BeneficiaryStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.beneficiaries.Get(address)
	if err != nil {
		return BeneficiaryStatus{}, err
	}

	return w.statusOf(rec, now), nil
}

// Beneficiaries returns snapshots of all beneficiaries in insertion order.
func (w *Wallet) Beneficiaries(now time.Time) []BeneficiaryStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	recs := w.beneficiaries.List()

	out := make([]BeneficiaryStatus, 0, len(recs))
	for _, rec := range recs {
		out = append(out, w.statusOf(rec, now))
	}

	return out
}

// BeneficiaryTransfers returns the beneficiary's in-window entries.
func (w *Wallet) BeneficiaryTransfers(address string, now time.Time) ([]Entry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.beneficiaries.Get(address)
	if err != nil {
		return nil, err
	}

	return rec.Quota.Transfers(now), nil
}

// SetBeneficiaryLimit replaces one beneficiary's limit.
func (w *Wallet) SetBeneficiaryLimit(address string, newLimit decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.beneficiaries.SetLimit(address, newLimit)
}

// TemporarilyIncreaseBeneficiary raises one beneficiary's effective quota by
// delta for one window length.
func (w *Wallet) TemporarilyIncreaseBeneficiary(address string, delta decimal.Decimal, now time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.beneficiaries.TemporarilyIncrease(address, delta, now)
}

// TemporarilyDecreaseBeneficiary lowers one beneficiary's effective quota by
// delta for one window length.
func (w *Wallet) TemporarilyDecreaseBeneficiary(address string, delta decimal.Decimal, now time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.beneficiaries.TemporarilyDecrease(address, delta, now)
}

func (w *Wallet) statusOf(rec *BeneficiaryRecord, now time.Time) BeneficiaryStatus {
	return BeneficiaryStatus{
		Address:   rec.Address,
		EnabledAt: rec.EnabledAt,
		RemovedAt: rec.RemovedAt,
		Limit:     rec.Quota.Limit(),
		Remaining: rec.Quota.Remaining(now),
	}
}

// RestoreEntry re-appends a persisted wallet-level entry during hydration.
// Entries must arrive in chronological order.
func (w *Wallet) RestoreEntry(amount decimal.Decimal, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.quota.restoreEntry(amount, at)
}

// RestoreBeneficiary re-inserts a persisted beneficiary during hydration,
// preserving its original EnabledAt and removal state.
func (w *Wallet) RestoreBeneficiary(address string, limit decimal.Decimal, enabledAt time.Time, removedAt *time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.beneficiaries.restore(&BeneficiaryRecord{
		Address:   address,
		EnabledAt: enabledAt,
		RemovedAt: removedAt,
		Quota:     NewQuotaTracker(limit, w.quota.Window()),
	})
}

// RestoreBeneficiaryEntry re-appends a persisted beneficiary-level entry
// during hydration.
func (w *Wallet) RestoreBeneficiaryEntry(address string, amount decimal.Decimal, at time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, err := w.beneficiaries.Get(address)
	if err != nil {
		return err
	}

	rec.Quota.restoreEntry(amount, at)

	return nil
}
