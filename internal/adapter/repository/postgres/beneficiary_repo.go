package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/usecase"
)

// BeneficiaryRepository implements usecase.BeneficiaryRepository.
type BeneficiaryRepository struct {
	pool *pgxpool.Pool
}

// NewBeneficiaryRepository creates a new BeneficiaryRepository.
func NewBeneficiaryRepository(pool *pgxpool.Pool) *BeneficiaryRepository {
	return &BeneficiaryRepository{pool: pool}
}

// Create inserts a beneficiary registration. The unique constraint on
// (wallet_id, address) arbitrates concurrent registration of the same address.
func (r *BeneficiaryRepository) Create(ctx context.Context, tx usecase.Transaction, b *usecase.BeneficiaryRow) error {
	query := `
		INSERT INTO beneficiaries (wallet_id, address, transfer_limit, enabled_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		b.WalletID,
		b.Address,
		decimalToNumeric(b.Limit),
		timeToPgTimestamptz(b.EnabledAt),
		timeToPgTimestamptz(b.CreatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrBeneficiaryAlreadyExists
	}

	return err
}

// UpdateLimit replaces a beneficiary's limit.
func (r *BeneficiaryRepository) UpdateLimit(ctx context.Context, tx usecase.Transaction, walletID, address string, limit decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE beneficiaries
		SET transfer_limit = $3, updated_at = $4
		WHERE wallet_id = $1 AND address = $2
	`

	tag, err := r.exec(ctx, tx, query, walletID, address, decimalToNumeric(limit), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBeneficiaryNotFound
	}

	return nil
}

// MarkRemoved soft-removes a beneficiary, preserving the row and its entries.
func (r *BeneficiaryRepository) MarkRemoved(ctx context.Context, tx usecase.Transaction, walletID, address string, removedAt time.Time) error {
	query := `
		UPDATE beneficiaries
		SET removed_at = $3
		WHERE wallet_id = $1 AND address = $2 AND removed_at IS NULL
	`

	tag, err := r.exec(ctx, tx, query, walletID, address, timeToPgTimestamptz(removedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBeneficiaryNotFound
	}

	return nil
}

// ListByWallet returns all of a wallet's beneficiaries, removed ones included,
// in registration order.
func (r *BeneficiaryRepository) ListByWallet(ctx context.Context, walletID string) ([]*usecase.BeneficiaryRow, error) {
	query := `
		SELECT wallet_id, address, transfer_limit, enabled_at, removed_at, created_at
		FROM beneficiaries
		WHERE wallet_id = $1
		ORDER BY created_at ASC, address ASC
	`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*usecase.BeneficiaryRow
	for rows.Next() {
		var (
			row                  usecase.BeneficiaryRow
			limit                pgtype.Numeric
			enabledAt, createdAt pgtype.Timestamptz
			removedAt            pgtype.Timestamptz
		)

		if err := rows.Scan(&row.WalletID, &row.Address, &limit, &enabledAt, &removedAt, &createdAt); err != nil {
			return nil, err
		}

		row.Limit = numericToDecimal(limit)
		row.EnabledAt = enabledAt.Time
		row.CreatedAt = createdAt.Time

		if removedAt.Valid {
			t := removedAt.Time
			row.RemovedAt = &t
		}

		out = append(out, &row)
	}

	return out, rows.Err()
}

func (r *BeneficiaryRepository) exec(ctx context.Context, tx usecase.Transaction, query string, args ...any) (pgconn.CommandTag, error) {
	if tx != nil {
		return tx.(*Tx).PgxTx().Exec(ctx, query, args...)
	}

	return r.pool.Exec(ctx, query, args...)
}
