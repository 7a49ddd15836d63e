package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/infrastructure/metrics"
)

// WalletUseCase handles wallet-level quota business logic.
type WalletUseCase struct {
	txManager TransactionManager
	wallets   WalletRepository
	entries   EntryRepository
	outbox    OutboxRepository
	audit     AuditRepository
	gateway   TokenGateway
	engines   *EngineCache
	idGen     IDGenerator
	clock     Clock
	retrier   Retrier
	logger    *slog.Logger
	metrics   *metrics.Metrics

	defaultWindow time.Duration
}

// WalletUseCaseConfig holds dependencies for WalletUseCase.
type WalletUseCaseConfig struct {
	TxManager     TransactionManager
	WalletRepo    WalletRepository
	EntryRepo     EntryRepository
	OutboxRepo    OutboxRepository
	AuditRepo     AuditRepository
	Gateway       TokenGateway
	Engines       *EngineCache
	IDGen         IDGenerator
	Clock         Clock
	Retrier       Retrier
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	DefaultWindow time.Duration
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(cfg WalletUseCaseConfig) *WalletUseCase {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = domain.DefaultWindow
	}

	return &WalletUseCase{
		txManager:     cfg.TxManager,
		wallets:       cfg.WalletRepo,
		entries:       cfg.EntryRepo,
		outbox:        cfg.OutboxRepo,
		audit:         cfg.AuditRepo,
		gateway:       cfg.Gateway,
		engines:       cfg.Engines,
		idGen:         cfg.IDGen,
		clock:         cfg.Clock,
		retrier:       cfg.Retrier,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		defaultWindow: cfg.DefaultWindow,
	}
}

// WalletStatus is the read-only view of a wallet's quota state.
type WalletStatus struct {
	ID        string
	Limit     decimal.Decimal
	Remaining decimal.Decimal
	Window    time.Duration
	CreatedAt time.Time
}

// CreateWalletInput represents input for creating a wallet.
type CreateWalletInput struct {
	Limit  decimal.Decimal
	Window time.Duration // zero means the default 24h window
}

// CreateWallet provisions a new wallet with an empty ledger.
func (uc *WalletUseCase) CreateWallet(ctx context.Context, input CreateWalletInput) (*WalletStatus, error) {
	if err := domain.ValidateLimit(input.Limit); err != nil {
		return nil, err
	}

	window := input.Window
	if window <= 0 {
		window = uc.defaultWindow
	}

	now := uc.clock.Now()
	rec := &WalletRecord{
		ID:        uc.idGen.Generate(),
		Limit:     input.Limit,
		Window:    window,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.wallets.Create(ctx, tx, rec); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(rec.ID, domain.AggregateTypeWallet, domain.EventTypeWalletCreated, domain.MarshalState(domain.WalletCreatedEvent{
			WalletID: rec.ID,
			Limit:    rec.Limit.String(),
			Window:   window.String(),
		}), now))
	})
	if err != nil {
		uc.writeAudit(ctx, domain.AuditActionWalletCreate, rec.ID, err, nil)
		return nil, err
	}

	engine := domain.NewWallet(rec.ID, rec.Limit, window, now)
	uc.engines.Put(engine)

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionWalletCreate, rec.ID, nil, domain.MarshalState(rec))

	return &WalletStatus{
		ID:        rec.ID,
		Limit:     rec.Limit,
		Remaining: rec.Limit,
		Window:    window,
		CreatedAt: now,
	}, nil
}

// GetStatus returns the wallet's current limit and remaining quota.
func (uc *WalletUseCase) GetStatus(ctx context.Context, walletID string) (*WalletStatus, error) {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	return &WalletStatus{
		ID:        engine.ID,
		Limit:     engine.Limit(),
		Remaining: engine.Remaining(now),
		Window:    engine.Window(),
		CreatedAt: engine.CreatedAt,
	}, nil
}

// ListTransfers returns the wallet-level in-window ledger entries.
func (uc *WalletUseCase) ListTransfers(ctx context.Context, walletID string) ([]domain.Entry, error) {
	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return engine.Transfers(uc.clock.Now()), nil
}

// SetLimit replaces the wallet-wide limit. The ledger is untouched; existing
// in-window spend is not revalidated.
func (uc *WalletUseCase) SetLimit(ctx context.Context, walletID string, newLimit decimal.Decimal) error {
	if err := domain.ValidateLimit(newLimit); err != nil {
		return err
	}

	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return err
	}

	engine.SetLimit(newLimit)

	now := uc.clock.Now()
	err = uc.inTx(ctx, func(tx Transaction) error {
		if err := uc.wallets.UpdateLimit(ctx, tx, walletID, newLimit, now); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.AggregateTypeWallet, domain.EventTypeWalletLimitChanged, domain.MarshalState(domain.WalletLimitChangedEvent{
			WalletID: walletID,
			NewLimit: newLimit.String(),
		}), now))
	})
	if err != nil {
		// The engine no longer matches the durable record; force rehydration.
		uc.engines.Invalidate(walletID)
		uc.writeAudit(ctx, domain.AuditActionWalletSetLimit, walletID, err, nil)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.LimitChanges.Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionWalletSetLimit, walletID, nil, domain.JSON{"new_limit": newLimit.String()})

	return nil
}

// AdjustQuota applies a temporary adjustment that decays after one window.
// Per the ledger convention, a positive delta decreases the available quota
// and a negative delta increases it; the signed delta is appended as-is.
func (uc *WalletUseCase) AdjustQuota(ctx context.Context, walletID string, delta decimal.Decimal) error {
	if err := domain.ValidateDelta(delta); err != nil {
		return err
	}

	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return err
	}

	now := uc.clock.Now()

	if delta.IsPositive() {
		engine.TemporarilyDecrease(delta, now)
	} else {
		engine.TemporarilyIncrease(delta.Neg(), now)
	}

	err = uc.inTx(ctx, func(tx Transaction) error {
		entry := &EntryRecord{
			ID:        uc.idGen.Generate(),
			WalletID:  walletID,
			Principal: PrincipalWallet,
			Amount:    delta,
			CreatedAt: now,
		}
		if err := uc.entries.Create(ctx, tx, entry); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.AggregateTypeWallet, domain.EventTypeWalletAdjusted, domain.MarshalState(domain.WalletAdjustedEvent{
			WalletID: walletID,
			Delta:    delta.String(),
		}), now))
	})
	if err != nil {
		uc.engines.Invalidate(walletID)
		uc.writeAudit(ctx, domain.AuditActionWalletAdjust, walletID, err, nil)

		return err
	}

	if uc.metrics != nil {
		uc.metrics.QuotaAdjustments.WithLabelValues("wallet").Inc()
	}

	uc.writeAudit(ctx, domain.AuditActionWalletAdjust, walletID, nil, domain.JSON{"delta": delta.String()})

	return nil
}

// TransferReceipt describes a successfully authorized transfer.
type TransferReceipt struct {
	TransferID           string
	WalletID             string
	Beneficiary          string
	Amount               decimal.Decimal
	WalletRemaining      decimal.Decimal
	BeneficiaryRemaining decimal.Decimal
	ExecutedAt           time.Time
}

// AuthorizeTransfer runs the full atomic authorization: wallet-level quota,
// beneficiary-level quota, then the token gateway and the durable write.
// Either both ledgers record the spend, the entries are persisted and the
// tokens moved, or nothing changed.
func (uc *WalletUseCase) AuthorizeTransfer(ctx context.Context, walletID, beneficiary string, amount decimal.Decimal) (*TransferReceipt, error) {
	if err := domain.ValidateAddress(beneficiary); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	engine, err := uc.engines.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	start := time.Now()
	transferID := uc.idGen.Generate()

	err = engine.AuthorizeTransfer(beneficiary, amount, now, func() error {
		if err := uc.gateway.Transfer(ctx, beneficiary, amount); err != nil {
			if uc.metrics != nil {
				uc.metrics.GatewayErrors.Inc()
			}
			return err
		}

		return uc.persistTransfer(ctx, transferID, walletID, beneficiary, amount, now)
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransfersRejected.WithLabelValues(rejectionReason(err)).Inc()
		}
		uc.writeAudit(ctx, domain.AuditActionTransferAuthorize, walletID, err, domain.JSON{
			"beneficiary": beneficiary,
			"amount":      amount.String(),
		})

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersAuthorized.Inc()
		uc.metrics.TransferAmount.Observe(amount.InexactFloat64())
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		uc.metrics.WalletRemaining.WithLabelValues(walletID).Set(engine.Remaining(now).InexactFloat64())
	}

	uc.writeAudit(ctx, domain.AuditActionTransferAuthorize, walletID, nil, domain.JSON{
		"transfer_id": transferID,
		"beneficiary": beneficiary,
		"amount":      amount.String(),
	})

	status, _ := engine.Beneficiary(beneficiary, now)

	return &TransferReceipt{
		TransferID:           transferID,
		WalletID:             walletID,
		Beneficiary:          beneficiary,
		Amount:               amount,
		WalletRemaining:      engine.Remaining(now),
		BeneficiaryRemaining: status.Remaining,
		ExecutedAt:           now,
	}, nil
}

// persistTransfer writes both ledger entries and the transfer-executed event
// in one transaction. Running inside the engine's execute callback, a failure
// here propagates and rolls back both in-memory appends.
func (uc *WalletUseCase) persistTransfer(ctx context.Context, transferID, walletID, beneficiary string, amount decimal.Decimal, now time.Time) error {
	return uc.inTx(ctx, func(tx Transaction) error {
		walletEntry := &EntryRecord{
			ID:        uc.idGen.Generate(),
			WalletID:  walletID,
			Principal: PrincipalWallet,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := uc.entries.Create(ctx, tx, walletEntry); err != nil {
			return err
		}

		beneficiaryEntry := &EntryRecord{
			ID:        uc.idGen.Generate(),
			WalletID:  walletID,
			Principal: beneficiary,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := uc.entries.Create(ctx, tx, beneficiaryEntry); err != nil {
			return err
		}

		return uc.outbox.Create(ctx, tx, &domain.OutboxEvent{
			ID:            transferID,
			AggregateID:   walletID,
			AggregateType: domain.AggregateTypeWallet,
			EventType:     domain.EventTypeTransferExecuted,
			Payload: domain.MarshalState(domain.TransferExecutedEvent{
				WalletID:    walletID,
				Beneficiary: beneficiary,
				Amount:      amount.String(),
				ExecutedAt:  now.Format(time.RFC3339Nano),
			}),
			CreatedAt: now,
		})
	})
}

// AuthorizeArbitraryTransfer is the admin-only escape hatch. It bypasses both
// quota trackers and invokes the gateway directly with the caller-chosen
// token, destination and amount; only the capability gate in front of this
// call restricts it.
func (uc *WalletUseCase) AuthorizeArbitraryTransfer(ctx context.Context, walletID, token, destination string, amount decimal.Decimal) error {
	if err := domain.ValidateAddress(destination); err != nil {
		return err
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	// Wallet existence is still checked so the audit trail has a subject.
	if _, err := uc.engines.Get(ctx, walletID); err != nil {
		return err
	}

	if err := uc.gateway.TransferToken(ctx, token, destination, amount); err != nil {
		uc.writeAudit(ctx, domain.AuditActionArbitraryTransfer, walletID, err, nil)
		return err
	}

	now := uc.clock.Now()
	err := uc.inTx(ctx, func(tx Transaction) error {
		return uc.outbox.Create(ctx, tx, uc.event(walletID, domain.AggregateTypeWallet, domain.EventTypeArbitraryTransfer, domain.MarshalState(domain.ArbitraryTransferEvent{
			WalletID:    walletID,
			Token:       token,
			Destination: destination,
			Amount:      amount.String(),
		}), now))
	})
	if err != nil {
		uc.logger.Error("failed to record arbitrary transfer event",
			slog.String("wallet_id", walletID),
			slog.String("error", err.Error()))
	}

	uc.writeAudit(ctx, domain.AuditActionArbitraryTransfer, walletID, nil, domain.JSON{
		"token":       token,
		"destination": destination,
		"amount":      amount.String(),
	})

	return nil
}

// rejectionReason maps an authorization failure to a bounded metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrLimitExceeded):
		return "wallet_limit"
	case errors.Is(err, domain.ErrBeneficiaryLimitExceeded):
		return "beneficiary_limit"
	case errors.Is(err, domain.ErrBeneficiaryNotEnabled):
		return "cooldown"
	case errors.Is(err, domain.ErrBeneficiaryRemoved):
		return "removed"
	case errors.Is(err, domain.ErrBeneficiaryNotFound):
		return "unknown_beneficiary"
	default:
		return "execute_failed"
	}
}

// inTx runs fn inside one transaction, retried on transient failures.
func (uc *WalletUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
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

func (uc *WalletUseCase) event(aggregateID, aggregateType, eventType string, payload domain.JSON, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}

func (uc *WalletUseCase) writeAudit(ctx context.Context, action domain.AuditAction, resourceID string, opErr error, state domain.JSON) {
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
		ResourceType: domain.AggregateTypeWallet,
		ResourceID:   resourceID,
		AfterState:   state,
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
