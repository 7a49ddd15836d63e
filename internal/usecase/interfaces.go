package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
)

// PrincipalWallet is the principal name under which wallet-level ledger
// entries are persisted. Beneficiary-level entries use the beneficiary
// address; addresses are hex-prefixed so the two namespaces cannot collide.
const PrincipalWallet = "wallet"

// WalletRecord is the persisted form of a wallet's configuration.
type WalletRecord struct {
	ID        string
	Limit     decimal.Decimal
	Window    time.Duration
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryRecord is the persisted form of one signed ledger entry.
type EntryRecord struct {
	ID        string
	WalletID  string
	Principal string // PrincipalWallet or a beneficiary address
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// BeneficiaryRow is the persisted form of one beneficiary registration.
type BeneficiaryRow struct {
	WalletID  string
	Address   string
	Limit     decimal.Decimal
	EnabledAt time.Time
	RemovedAt *time.Time
	CreatedAt time.Time
}

// WalletRepository defines data access for wallet configuration.
type WalletRepository interface {
	Create(ctx context.Context, tx Transaction, w *WalletRecord) error
	GetByID(ctx context.Context, id string) (*WalletRecord, error)
	UpdateLimit(ctx context.Context, tx Transaction, id string, limit decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*WalletRecord, error)
}

// EntryRepository defines data access for persisted ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *EntryRecord) error
	// ListByWalletSince returns all of a wallet's entries newer than since,
	// across all principals, in chronological order. Used for hydration.
	ListByWalletSince(ctx context.Context, walletID string, since time.Time) ([]*EntryRecord, error)
	// DeleteBefore evicts entries that can no longer influence any window.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// BeneficiaryRepository defines data access for beneficiary registrations.
type BeneficiaryRepository interface {
	Create(ctx context.Context, tx Transaction, b *BeneficiaryRow) error
	UpdateLimit(ctx context.Context, tx Transaction, walletID, address string, limit decimal.Decimal, updatedAt time.Time) error
	MarkRemoved(ctx context.Context, tx Transaction, walletID, address string, removedAt time.Time) error
	ListByWallet(ctx context.Context, walletID string) ([]*BeneficiaryRow, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// TokenGateway is the external balance-transfer primitive. The orchestrator
// invokes it only after both quota checks pass; its failure triggers a full
// rollback of the authorization.
type TokenGateway interface {
	Transfer(ctx context.Context, destination string, amount decimal.Decimal) error
	// TransferToken moves an arbitrary token. Used only by the admin escape
	// hatch, which bypasses the quota trackers entirely.
	TransferToken(ctx context.Context, token, destination string, amount decimal.Decimal) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the "now" that drives window pruning and cooldown checks.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
