package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*usecase.WalletRecord

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, w *usecase.WalletRecord) error
	GetByIDFunc     func(ctx context.Context, id string) (*usecase.WalletRecord, error)
	UpdateLimitFunc func(ctx context.Context, tx usecase.Transaction, id string, limit decimal.Decimal, updatedAt time.Time) error
	ListFunc        func(ctx context.Context, limit, offset int) ([]*usecase.WalletRecord, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*usecase.WalletRecord),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, tx usecase.Transaction, w *usecase.WalletRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, w)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.wallets[w.ID]; ok {
		return domain.ErrWalletAlreadyExists
	}
	m.wallets[w.ID] = w
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*usecase.WalletRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) UpdateLimit(ctx context.Context, tx usecase.Transaction, id string, limit decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateLimitFunc != nil {
		return m.UpdateLimitFunc(ctx, tx, id, limit, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[id]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.Limit = limit
	w.UpdatedAt = updatedAt
	return nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*usecase.WalletRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*usecase.WalletRecord
	for _, w := range m.wallets {
		out = append(out, w)
	}
	return out, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*usecase.EntryRecord

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *usecase.EntryRecord) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *usecase.EntryRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByWalletSince(ctx context.Context, walletID string, since time.Time) ([]*usecase.EntryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*usecase.EntryRecord
	for _, e := range m.entries {
		if e.WalletID == walletID && e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*usecase.EntryRecord
	var deleted int64
	for _, e := range m.entries {
		if e.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return deleted, nil
}

// All returns every stored entry, for assertions.
func (m *MockEntryRepository) All() []*usecase.EntryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*usecase.EntryRecord, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockBeneficiaryRepository is a mock implementation of BeneficiaryRepository.
type MockBeneficiaryRepository struct {
	mu   sync.RWMutex
	rows []*usecase.BeneficiaryRow

	CreateFunc func(ctx context.Context, tx usecase.Transaction, b *usecase.BeneficiaryRow) error
}

func NewMockBeneficiaryRepository() *MockBeneficiaryRepository {
	return &MockBeneficiaryRepository{}
}

func (m *MockBeneficiaryRepository) Create(ctx context.Context, tx usecase.Transaction, b *usecase.BeneficiaryRow) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.WalletID == b.WalletID && row.Address == b.Address {
			return domain.ErrBeneficiaryAlreadyExists
		}
	}
	m.rows = append(m.rows, b)
	return nil
}

func (m *MockBeneficiaryRepository) UpdateLimit(ctx context.Context, tx usecase.Transaction, walletID, address string, limit decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.WalletID == walletID && row.Address == address {
			row.Limit = limit
			return nil
		}
	}
	return domain.ErrBeneficiaryNotFound
}

func (m *MockBeneficiaryRepository) MarkRemoved(ctx context.Context, tx usecase.Transaction, walletID, address string, removedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.WalletID == walletID && row.Address == address {
			at := removedAt
			row.RemovedAt = &at
			return nil
		}
	}
	return domain.ErrBeneficiaryNotFound
}

func (m *MockBeneficiaryRepository) ListByWallet(ctx context.Context, walletID string) ([]*usecase.BeneficiaryRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*usecase.BeneficiaryRow
	for _, row := range m.rows {
		if row.WalletID == walletID {
			out = append(out, row)
		}
	}
	return out, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.CreatedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns every stored event, for assertions.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

// MockTokenGateway is a mock implementation of TokenGateway.
type MockTokenGateway struct {
	mu    sync.Mutex
	calls []string

	TransferFunc      func(ctx context.Context, destination string, amount decimal.Decimal) error
	TransferTokenFunc func(ctx context.Context, token, destination string, amount decimal.Decimal) error
}

func NewMockTokenGateway() *MockTokenGateway {
	return &MockTokenGateway{}
}

func (m *MockTokenGateway) Transfer(ctx context.Context, destination string, amount decimal.Decimal) error {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("transfer:%s:%s", destination, amount))
	m.mu.Unlock()
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, destination, amount)
	}
	return nil
}

func (m *MockTokenGateway) TransferToken(ctx context.Context, token, destination string, amount decimal.Decimal) error {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("transfer_token:%s:%s:%s", token, destination, amount))
	m.mu.Unlock()
	if m.TransferTokenFunc != nil {
		return m.TransferTokenFunc(ctx, token, destination, amount)
	}
	return nil
}

// Calls returns the recorded gateway invocations.
func (m *MockTokenGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockClock is a controllable Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set moves the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
