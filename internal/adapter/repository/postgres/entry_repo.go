package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/spendguard/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Entries are append-only;
// the only delete path is the retention sweep for rows past every window.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts one signed ledger entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *usecase.EntryRecord) error {
	query := `
		INSERT INTO entries (id, wallet_id, principal, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.WalletID,
		entry.Principal,
		decimalToNumeric(entry.Amount),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByWalletSince returns all of a wallet's entries newer than since, in
// chronological order across all principals.
func (r *EntryRepository) ListByWalletSince(ctx context.Context, walletID string, since time.Time) ([]*usecase.EntryRecord, error) {
	query := `
		SELECT id, wallet_id, principal, amount, created_at
		FROM entries
		WHERE wallet_id = $1 AND created_at > $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, walletID, timeToPgTimestamptz(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*usecase.EntryRecord
	for rows.Next() {
		var (
			rec       usecase.EntryRecord
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&rec.ID, &rec.WalletID, &rec.Principal, &amount, &createdAt); err != nil {
			return nil, err
		}

		rec.Amount = numericToDecimal(amount)
		rec.CreatedAt = createdAt.Time

		out = append(out, &rec)
	}

	return out, rows.Err()
}

// DeleteBefore evicts entries that can no longer influence any window.
func (r *EntryRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE created_at < $1`, timeToPgTimestamptz(before))
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
