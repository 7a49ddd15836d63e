package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errGatewayDown = errors.New("gateway unavailable")

func newTestWallet(t *testing.T, limit int64) (*Wallet, time.Time) {
	t.Helper()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return NewWallet("wal-1", decimal.NewFromInt(limit), DefaultWindow, base), base
}

func TestWallet_AuthorizeTransfer(t *testing.T) {
	w, base := newTestWallet(t, 2000)

	_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(1000), 0, base)
	require.NoError(t, err)

	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(500), base.Add(time.Minute), nil)
	require.NoError(t, err)

	require.True(t, w.Remaining(base.Add(time.Minute)).Equal(decimal.NewFromInt(1500)))

	status, err := w.Beneficiary(addrB1, base.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, status.Remaining.Equal(decimal.NewFromInt(500)))
}

func TestWallet_CheckOrdering(t *testing.T) {
	// Wallet quota available, beneficiary never registered: the failure must
	// be BeneficiaryNotFound, not LimitExceeded.
	w, base := newTestWallet(t, 6000)

	err := w.AuthorizeTransfer(addrB1, decimal.NewFromInt(1000), base, nil)
	require.ErrorIs(t, err, ErrBeneficiaryNotFound)

	// Wallet quota insufficient: fails fast with LimitExceeded even though
	// the beneficiary does not exist either.
	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(7000), base, nil)
	require.ErrorIs(t, err, ErrLimitExceeded)
}

func TestWallet_AtomicityOnBeneficiaryFailure(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(w *Wallet, base time.Time)
		wantError error
	}{
		{
			name:      "beneficiary not found",
			setup:     func(w *Wallet, base time.Time) {},
			wantError: ErrBeneficiaryNotFound,
		},
		{
			name: "beneficiary not enabled",
			setup: func(w *Wallet, base time.Time) {
				_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(1000), DefaultCooldown, base)
				require.NoError(t, err)
			},
			wantError: ErrBeneficiaryNotEnabled,
		},
		{
			name: "beneficiary limit exceeded",
			setup: func(w *Wallet, base time.Time) {
				_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(100), 0, base)
				require.NoError(t, err)
			},
			wantError: ErrBeneficiaryLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, base := newTestWallet(t, 2000)
			tt.setup(w, base)

			now := base.Add(time.Minute)
			before := w.Remaining(now)

			err := w.AuthorizeTransfer(addrB1, decimal.NewFromInt(500), now, nil)
			require.ErrorIs(t, err, tt.wantError)

			// The wallet-level spend from step 1 must have been rolled back.
			require.True(t, w.Remaining(now).Equal(before),
				"wallet remaining changed after failed authorization: before %s, after %s", before, w.Remaining(now))
		})
	}
}

func TestWallet_AtomicityAfterEntriesAgeOut(t *testing.T) {
	// Ledger entries older than the window are pruned lazily, inside the
	// failing authorization itself. The rollback must still restore remaining
	// exactly, even though the pruned entries shrank the ledger mid-call.
	t.Run("beneficiary not found", func(t *testing.T) {
		w, base := newTestWallet(t, 1000)

		w.TemporarilyDecrease(decimal.NewFromInt(10), base)

		now := base.Add(25 * time.Hour)

		err := w.AuthorizeTransfer(addrB1, decimal.NewFromInt(100), now, nil)
		require.ErrorIs(t, err, ErrBeneficiaryNotFound)

		require.True(t, w.Remaining(now).Equal(decimal.NewFromInt(1000)),
			"remaining after failed transfer = %s, want 1000", w.Remaining(now))
	})

	t.Run("execute failure", func(t *testing.T) {
		w, base := newTestWallet(t, 1000)

		_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(500), 0, base)
		require.NoError(t, err)

		require.NoError(t, w.AuthorizeTransfer(addrB1, decimal.NewFromInt(300), base, nil))

		now := base.Add(25 * time.Hour)

		err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(100), now, func() error {
			return errGatewayDown
		})
		require.ErrorIs(t, err, errGatewayDown)

		require.True(t, w.Remaining(now).Equal(decimal.NewFromInt(1000)))

		status, err := w.Beneficiary(addrB1, now)
		require.NoError(t, err)
		require.True(t, status.Remaining.Equal(decimal.NewFromInt(500)))
	})
}

func TestWallet_AtomicityOnExecuteFailure(t *testing.T) {
	w, base := newTestWallet(t, 2000)

	_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(1000), 0, base)
	require.NoError(t, err)

	now := base.Add(time.Minute)
	walletBefore := w.Remaining(now)

	statusBefore, err := w.Beneficiary(addrB1, now)
	require.NoError(t, err)

	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(500), now, func() error {
		return errGatewayDown
	})
	require.ErrorIs(t, err, errGatewayDown)

	require.True(t, w.Remaining(now).Equal(walletBefore))

	statusAfter, err := w.Beneficiary(addrB1, now)
	require.NoError(t, err)
	require.True(t, statusAfter.Remaining.Equal(statusBefore.Remaining))
}

func TestWallet_RejectsNonPositiveAmount(t *testing.T) {
	w, base := newTestWallet(t, 2000)

	err := w.AuthorizeTransfer(addrB1, decimal.Zero, base, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(-5), base, nil)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestWallet_CooldownGating(t *testing.T) {
	w, base := newTestWallet(t, 6000)

	// Default cooldown 24h, limit 0.
	_, err := w.AddBeneficiary(addrB1, decimal.Zero, DefaultCooldown, base)
	require.NoError(t, err)

	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(1000), base, nil)
	require.ErrorIs(t, err, ErrBeneficiaryNotEnabled)

	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(1000), base.Add(23*time.Hour), nil)
	require.ErrorIs(t, err, ErrBeneficiaryNotEnabled)

	// After the cooldown the gate moves to the beneficiary quota.
	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(1000), base.Add(24*time.Hour), nil)
	require.ErrorIs(t, err, ErrBeneficiaryLimitExceeded)
}

func TestWallet_EndToEndScenario(t *testing.T) {
	w, base := newTestWallet(t, 2000)

	_, err := w.AddBeneficiary(addrB1, decimal.NewFromInt(1000), 0, base)
	require.NoError(t, err)

	t0 := base.Add(time.Minute)
	require.NoError(t, w.AuthorizeTransfer(addrB1, decimal.NewFromInt(500), t0, nil))
	require.True(t, w.Remaining(t0).Equal(decimal.NewFromInt(1500)))

	status, err := w.Beneficiary(addrB1, t0)
	require.NoError(t, err)
	require.True(t, status.Remaining.Equal(decimal.NewFromInt(500)))

	// Two hours later: 501 exceeds the beneficiary's remaining 500.
	t1 := t0.Add(2 * time.Hour)
	err = w.AuthorizeTransfer(addrB1, decimal.NewFromInt(501), t1, nil)
	require.ErrorIs(t, err, ErrBeneficiaryLimitExceeded)

	require.NoError(t, w.AuthorizeTransfer(addrB1, decimal.NewFromInt(500), t1, nil))

	status, err = w.Beneficiary(addrB1, t1)
	require.NoError(t, err)
	require.True(t, status.Remaining.IsZero())

	// Temporary wallet increase raises the ceiling by 1000 until it decays.
	t2 := t1.Add(time.Hour)
	w.TemporarilyIncrease(decimal.NewFromInt(1000), t2)
	require.True(t, w.Remaining(t2).Equal(decimal.NewFromInt(2000)))

	// A transfer that would have breached the original ceiling now passes.
	_, err = w.AddBeneficiary(addrB2, decimal.NewFromInt(1500), 0, base)
	require.NoError(t, err)

	t3 := t2.Add(time.Hour)
	require.NoError(t, w.AuthorizeTransfer(addrB2, decimal.NewFromInt(1500), t3, nil))
	require.True(t, w.Remaining(t3).Equal(decimal.NewFromInt(500)))

	// Just before the adjustment expires, the early spends have aged out and
	// the credit still counts.
	t4 := t2.Add(DefaultWindow)
	require.True(t, w.Remaining(t4.Add(-time.Second)).Equal(decimal.NewFromInt(1500)))

	// One window after the adjustment it decays and remaining drops back by
	// its 1000, leaving only the third spend in window.
	require.True(t, w.Remaining(t4).Equal(decimal.NewFromInt(500)))
}

func TestWallet_Hydration(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := NewWallet("wal-1", decimal.NewFromInt(2000), DefaultWindow, base)

	w.RestoreEntry(decimal.NewFromInt(500), base)

	enabledAt := base.Add(-time.Hour)
	require.NoError(t, w.RestoreBeneficiary(addrB1, decimal.NewFromInt(1000), enabledAt, nil))
	require.NoError(t, w.RestoreBeneficiaryEntry(addrB1, decimal.NewFromInt(200), base))

	now := base.Add(time.Minute)
	require.True(t, w.Remaining(now).Equal(decimal.NewFromInt(1500)))

	status, err := w.Beneficiary(addrB1, now)
	require.NoError(t, err)
	require.True(t, status.Remaining.Equal(decimal.NewFromInt(800)))
	require.True(t, status.EnabledAt.Equal(enabledAt))

	// Restoring a duplicate beneficiary is rejected.
	err = w.RestoreBeneficiary(addrB1, decimal.Zero, enabledAt, nil)
	require.ErrorIs(t, err, ErrBeneficiaryAlreadyExists)
}
