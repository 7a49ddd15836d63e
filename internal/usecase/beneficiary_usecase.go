package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/infrastructure/metrics"
)

// BeneficiaryUseCase handles beneficiary registration and per-beneficiary
// quota management.
type BeneficiaryUseCase struct {
	txManager     TransactionManager
	beneficiaries BeneficiaryRepository
	entries       EntryRepository
	outbox        OutboxRepository
	audit         AuditRepository
	engines       *EngineCache
	idGen         IDGenerator
	clock         Clock
	retrier       Retrier
	logger        *slog.Logger
	metrics       *metrics.Metrics

	defaultCooldown time.Duration
}

// BeneficiaryUseCaseConfig holds dependencies for BeneficiaryUseCase.
type BeneficiaryUseCaseConfig struct {
	TxManager       TransactionManager
	BeneficiaryRepo BeneficiaryRepository
	EntryRepo       EntryRepository
	OutboxRepo      OutboxRepository
	AuditRepo       AuditRepository
	Engines         *EngineCache
	IDGen           IDGenerator
	Clock           Clock
	Retrier         Retrier
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	DefaultCooldown time.Duration
}

// NewBeneficiaryUseCase creates a new BeneficiaryUseCase.
func NewBeneficiaryUseCase(cfg BeneficiaryUseCaseConfig) *BeneficiaryUseCase {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultCooldown <= 0 {
		cfg.DefaultCooldown = domain.DefaultCooldown
	}

	return &BeneficiaryUseCase{
		txManager:       cfg.TxManager,
		beneficiaries:   cfg.BeneficiaryRepo,
		entries:         cfg.EntryRepo,
		outbox:          cfg.OutboxRepo,
		audit:           cfg.AuditRepo,
		engines:         cfg.Engines,
		idGen:           cfg.IDGen,
		clock:           cfg.Clock,
		retrier:         cfg.Retrier,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		defaultCooldown: cfg.DefaultCooldown,
	}
}

// AddBeneficiaryInput represents input for registering a beneficiary.
type AddBeneficiaryInput struct {
	WalletID string
	Address  string
	Limit    decimal.Decimal
	Cooldown *time.Duration // nil means the default 24h cooldown
}

// AddBeneficiary registers a beneficiary with its own quota tracker and an
// activation cooldown. Re-registering an existing address fails with
// ErrBeneficiaryAlreadyExists.
func (uc *BeneficiaryUseCase) AddBeneficiary(ctx context.Context, input AddBeneficiaryInput) (*domain.BeneficiaryStatus, error) {
	if err := domain.ValidateAddress(input.Address); err != nil {
		return nil, err
	}

	if err := domain.ValidateLimit(input.Limit); err != nil {
		return nil, err
	}

	engine, err := uc.engines.Get(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}

	cooldown := uc.defaultCooldown
	if input.Cooldown != nil && *input.Cooldown >= 0 {
		cooldown = *input.Cooldown
	}

	now := uc.clock.Now()

	// Persist first: the unique constraint on (wallet_id, address) is the
	// arbiter under concurrent registration. The in-memory add below can then
	// only fail if this request lost a race that the database also rejected.
	row := &BeneficiaryRow{
		WalletID:  input.WalletID,
		Address:   input.Address,
		Limit:     input.Limit,
		EnabledAt: now.Add(cooldown),
		CreatedAt: now,
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.beneficiaries.Create(ctx, tx, row); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(input.WalletID, domain.EventTypeBeneficiaryAdded, domain.MarshalState(domain.BeneficiaryAddedEvent{
			WalletID:  input.WalletID,
			Address:   input.Address,
			Limit:     input.Limit.String(),
			EnabledAt: row.EnabledAt.Format(time.RFC3339Nano),
		}), now))
	})
	if err != nil {
		uc.writeAudit(ctx, domain.AuditActionBeneficiaryAdd, input.WalletID, input.Address, err)
		return nil, err
	}

	status, err := engine.AddBeneficiary(input.Address, input.Limit, cooldown, now)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BeneficiariesRegistered.Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionBeneficiaryAdd, input.WalletID, input.Address, nil)

	return &status, nil
}

// RemoveBeneficiary blocks future spends to the address while preserving the
// record and its transfer history.
func (uc *BeneficiaryUseCase) RemoveBeneficiary(ctx context.Context, walletID, address string) error {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()

	if err := engine.RemoveBeneficiary(address, now); err != nil {
		return err
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.beneficiaries.MarkRemoved(ctx, tx, walletID, address, now); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.EventTypeBeneficiaryRemoved, domain.MarshalState(domain.BeneficiaryRemovedEvent{
			WalletID: walletID,
			Address:  address,
		}), now))
	})
	if err != nil {
		uc.engines.Invalidate(walletID)
		uc.writeAudit(ctx, domain.AuditActionBeneficiaryRemove, walletID, address, err)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.BeneficiariesRemoved.Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionBeneficiaryRemove, walletID, address, nil)

	return nil
}

// GetBeneficiary returns one beneficiary's quota state and activation time.
func (uc *BeneficiaryUseCase) GetBeneficiary(ctx context.Context, walletID, address string) (*domain.BeneficiaryStatus, error) {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	status, err := engine.Beneficiary(address, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	return &status, nil
}

// ListBeneficiaries returns all beneficiaries in registration order.
func (uc *BeneficiaryUseCase) ListBeneficiaries(ctx context.Context, walletID string) ([]domain.BeneficiaryStatus, error) {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return engine.Beneficiaries(uc.clock.Now()), nil
}

// ListTransfers returns one beneficiary's in-window ledger entries.
func (uc *BeneficiaryUseCase) ListTransfers(ctx context.Context, walletID, address string) ([]domain.Entry, error) {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return engine.BeneficiaryTransfers(address, uc.clock.Now())
}

// SetLimit replaces one beneficiary's limit.
func (uc *BeneficiaryUseCase) SetLimit(ctx context.Context, walletID, address string, newLimit decimal.Decimal) error {
	if err := domain.ValidateLimit(newLimit); err != nil {
		return err
	}

	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return err
	}

	if err := engine.SetBeneficiaryLimit(address, newLimit); err != nil {
		return err
	}

	now := uc.clock.Now()
	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.beneficiaries.UpdateLimit(ctx, tx, walletID, address, newLimit, now); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.EventTypeBeneficiaryLimitChanged, domain.MarshalState(domain.BeneficiaryLimitChangedEvent{
			WalletID: walletID,
			Address:  address,
			NewLimit: newLimit.String(),
		}), now))
	})
	if err != nil {
		uc.engines.Invalidate(walletID)
		uc.writeAudit(ctx, domain.AuditActionBeneficiarySetLimit, walletID, address, err)

		return err
	}

	uc.writeAudit(ctx, domain.AuditActionBeneficiarySetLimit, walletID, address, nil)

	return nil
}

// AdjustQuota applies a temporary adjustment to one beneficiary, decaying
// after one window. Positive delta decreases the available quota, negative
// increases it.
func (uc *BeneficiaryUseCase) AdjustQuota(ctx context.Context, walletID, address string, delta decimal.Decimal) error {
	if err := domain.ValidateDelta(delta); err != nil {
		return err
	}

	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()

	if delta.IsPositive() {
		err = engine.TemporarilyDecreaseBeneficiary(address, delta, now)
	} else {
		err = engine.TemporarilyIncreaseBeneficiary(address, delta.Neg(), now)
	}
	if err != nil {
		return err
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		entry := &EntryRecord{
			ID:        uc.idGen.Generate(),
			WalletID:  walletID,
			Principal: address,
			Amount:    delta,
			CreatedAt: now,
		}
		if err := uc.entries.Create(ctx, tx, entry); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.EventTypeBeneficiaryAdjusted, domain.MarshalState(domain.BeneficiaryAdjustedEvent{
			WalletID: walletID,
			Address:  address,
			Delta:    delta.String(),
		}), now))
	})
	if err != nil {
		uc.engines.Invalidate(walletID)
		uc.writeAudit(ctx, domain.AuditActionBeneficiaryAdjust, walletID, address, err)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.QuotaAdjustments.WithLabelValues("beneficiary").Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionBeneficiaryAdjust, walletID, address, nil)

	return nil
}

func (uc *BeneficiaryUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	op := func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	}

	if uc.retrier == nil {
		return op()
	}

	return uc.retrier.Retry(ctx, op)
}

func (uc *BeneficiaryUseCase) event(walletID, eventType string, payload domain.JSON, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   walletID,
		AggregateType: domain.AggregateTypeBeneficiary,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}

func (uc *BeneficiaryUseCase) writeAudit(ctx context.Context, action domain.AuditAction, walletID, address string, opErr error) {
	if uc.audit == nil {
		return
	}

	status := string(domain.AuditStatusSuccess)

	var errMsg string
	if opErr != nil {
		status = string(domain.AuditStatusFailure)
		errMsg = opErr.Error()
	}

	log := &domain.AuditLog{
		Action:       string(action),
		ResourceType: domain.AggregateTypeBeneficiary,
		ResourceID:   walletID + ":" + address,
		Status:       status,
		ErrorMessage: errMsg,
		CreatedAt:    uc.clock.Now(),
	}

	if err := uc.audit.Create(ctx, log); err != nil {
		uc.logger.Error("failed to write audit log",
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
	}
}
