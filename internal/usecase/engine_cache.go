package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/iho/spendguard/internal/domain"
)

// EngineCache holds hydrated wallet engines. Quota decisions always run
// against the in-memory engine; Postgres is the durable record. A wallet is
// hydrated on first use from its stored configuration, beneficiaries and
// in-window ledger entries.
type EngineCache struct {
	walletRepo      WalletRepository
	entryRepo       EntryRepository
	beneficiaryRepo BeneficiaryRepository
	clock           Clock

	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

// NewEngineCache creates an empty cache backed by the given repositories.
func NewEngineCache(walletRepo WalletRepository, entryRepo EntryRepository, beneficiaryRepo BeneficiaryRepository, clock Clock) *EngineCache {
	if clock == nil {
		clock = SystemClock{}
	}

	return &EngineCache{
		walletRepo:      walletRepo,
		entryRepo:       entryRepo,
		beneficiaryRepo: beneficiaryRepo,
		clock:           clock,
		wallets:         make(map[string]*domain.Wallet),
	}
}

// Get returns the engine for walletID, hydrating it on a miss. Returns
// domain.ErrWalletNotFound for unknown wallets.
func (c *EngineCache) Get(ctx context.Context, walletID string) (*domain.Wallet, error) {
	c.mu.RLock()
	w, ok := c.wallets[walletID]
	c.mu.RUnlock()

	if ok {
		return w, nil
	}

	return c.hydrate(ctx, walletID)
}

// Put registers a freshly created engine.
func (c *EngineCache) Put(w *domain.Wallet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wallets[w.ID] = w
}

// Invalidate drops a cached engine so the next Get rehydrates from storage.
// Called when a durable write failed after an in-memory mutation, so the
// engine cannot be trusted to match the durable record anymore.
func (c *EngineCache) Invalidate(walletID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.wallets, walletID)
}

func (c *EngineCache) hydrate(ctx context.Context, walletID string) (*domain.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have hydrated while we waited for the lock.
	if w, ok := c.wallets[walletID]; ok {
		return w, nil
	}

	rec, err := c.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	w := domain.NewWallet(rec.ID, rec.Limit, rec.Window, rec.CreatedAt)

	rows, err := c.beneficiaryRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	for _, b := range rows {
		if err := w.RestoreBeneficiary(b.Address, b.Limit, b.EnabledAt, b.RemovedAt); err != nil {
			return nil, err
		}
	}

	// Entries older than the window cannot influence any quota decision.
	since := c.clock.Now().Add(-rec.Window)

	entries, err := c.entryRepo.ListByWalletSince(ctx, walletID, since)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Principal == PrincipalWallet {
			w.RestoreEntry(e.Amount, e.CreatedAt)
			continue
		}

		if err := w.RestoreBeneficiaryEntry(e.Principal, e.Amount, e.CreatedAt); err != nil {
			return nil, err
		}
	}

	c.wallets[walletID] = w

	return w, nil
}

// SweepExpiredEntries deletes persisted entries that have aged past every
// window and can never be hydrated again. Intended to run periodically.
func (c *EngineCache) SweepExpiredEntries(ctx context.Context, window time.Duration) (int64, error) {
	cutoff := c.clock.Now().Add(-window).Add(-EntryRetentionSlack)

	return c.entryRepo.DeleteBefore(ctx, cutoff)
}
