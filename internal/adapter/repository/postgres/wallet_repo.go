package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// WalletRepository implements usecase.WalletRepository.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create inserts a wallet row.
func (r *WalletRepository) Create(ctx context.Context, tx usecase.Transaction, w *usecase.WalletRecord) error {
	query := `
		INSERT INTO wallets (id, transfer_limit, window_seconds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.exec(ctx, tx, query,
		w.ID,
		decimalToNumeric(w.Limit),
		int64(w.Window/time.Second),
		timeToPgTimestamptz(w.CreatedAt),
		timeToPgTimestamptz(w.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrWalletAlreadyExists
	}

	return err
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*usecase.WalletRecord, error) {
	query := `
		SELECT id, transfer_limit, window_seconds, created_at, updated_at
		FROM wallets
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	rec, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}

		return nil, err
	}

	return rec, nil
}

// UpdateLimit replaces a wallet's limit.
func (r *WalletRepository) UpdateLimit(ctx context.Context, tx usecase.Transaction, id string, limit decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE wallets
		SET transfer_limit = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.exec(ctx, tx, query, id, decimalToNumeric(limit), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}

// List lists wallets with pagination.
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*usecase.WalletRecord, error) {
	query := `
		SELECT id, transfer_limit, window_seconds, created_at, updated_at
		FROM wallets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*usecase.WalletRecord
	for rows.Next() {
		rec, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *WalletRepository) exec(ctx context.Context, tx usecase.Transaction, query string, args ...any) (pgconn.CommandTag, error) {
	if tx != nil {
		return tx.(*Tx).PgxTx().Exec(ctx, query, args...)
	}

	return r.pool.Exec(ctx, query, args...)
}

func scanWallet(row pgx.Row) (*usecase.WalletRecord, error) {
	var (
		rec                  usecase.WalletRecord
		limit                pgtype.Numeric
		windowSeconds        int64
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&rec.ID, &limit, &windowSeconds, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.Limit = numericToDecimal(limit)
	rec.Window = time.Duration(windowSeconds) * time.Second
	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
