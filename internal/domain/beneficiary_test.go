package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const (
	addrB1 = "0x1111111111111111111111111111111111111111"
	addrB2 = "0x2222222222222222222222222222222222222222"
	addrB3 = "0x3333333333333333333333333333333333333333"
)

func TestBeneficiaryRegistry_Add(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	br := NewBeneficiaryRegistry()

	rec, err := br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), DefaultCooldown, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rec.EnabledAt.Equal(base.Add(DefaultCooldown)) {
		t.Errorf("expected EnabledAt %v, got %v", base.Add(DefaultCooldown), rec.EnabledAt)
	}

	// Re-adding fails and preserves the original record.
	_, err = br.Add(addrB1, DefaultWindow, decimal.NewFromInt(99), 0, base.Add(time.Hour))
	if !errors.Is(err, ErrBeneficiaryAlreadyExists) {
		t.Fatalf("expected ErrBeneficiaryAlreadyExists, got %v", err)
	}

	got, err := br.Get(addrB1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Quota.Limit().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("re-add overwrote the record: limit %s", got.Quota.Limit())
	}
}

func TestBeneficiaryRegistry_ListPreservesInsertionOrder(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	br := NewBeneficiaryRegistry()

	for _, addr := range []string{addrB2, addrB1, addrB3} {
		if _, err := br.Add(addr, DefaultWindow, decimal.Zero, 0, base); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	recs := br.List()
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	want := []string{addrB2, addrB1, addrB3}
	for i, rec := range recs {
		if rec.Address != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], rec.Address)
		}
	}
}

func TestBeneficiaryRegistry_RecordSpendOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setup     func(br *BeneficiaryRegistry)
		address   string
		now       time.Time
		wantError error
	}{
		{
			name:      "unknown address fails not found",
			setup:     func(br *BeneficiaryRegistry) {},
			address:   addrB1,
			now:       base,
			wantError: ErrBeneficiaryNotFound,
		},
		{
			name: "cooldown not elapsed fails not enabled",
			setup: func(br *BeneficiaryRegistry) {
				br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), DefaultCooldown, base)
			},
			address:   addrB1,
			now:       base.Add(23 * time.Hour),
			wantError: ErrBeneficiaryNotEnabled,
		},
		{
			name: "cooldown elapsed but zero limit fails limit exceeded",
			setup: func(br *BeneficiaryRegistry) {
				br.Add(addrB1, DefaultWindow, decimal.Zero, DefaultCooldown, base)
			},
			address:   addrB1,
			now:       base.Add(24 * time.Hour),
			wantError: ErrBeneficiaryLimitExceeded,
		},
		{
			name: "removed beneficiary fails removed before enablement check",
			setup: func(br *BeneficiaryRegistry) {
				br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), DefaultCooldown, base)
				br.Remove(addrB1, base.Add(time.Hour))
			},
			address:   addrB1,
			now:       base.Add(2 * time.Hour),
			wantError: ErrBeneficiaryRemoved,
		},
		{
			name: "enabled with quota succeeds",
			setup: func(br *BeneficiaryRegistry) {
				br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), 0, base)
			},
			address:   addrB1,
			now:       base.Add(time.Minute),
			wantError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := NewBeneficiaryRegistry()
			tt.setup(br)

			err := br.RecordSpend(tt.address, decimal.NewFromInt(500), tt.now)

			if tt.wantError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantError) {
				t.Fatalf("expected %v, got %v", tt.wantError, err)
			}
		})
	}
}

func TestBeneficiaryRegistry_CooldownBoundary(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	br := NewBeneficiaryRegistry()

	if _, err := br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), DefaultCooldown, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One nanosecond before EnabledAt: still gated.
	err := br.RecordSpend(addrB1, decimal.NewFromInt(1), base.Add(DefaultCooldown-time.Nanosecond))
	if !errors.Is(err, ErrBeneficiaryNotEnabled) {
		t.Fatalf("expected ErrBeneficiaryNotEnabled, got %v", err)
	}

	// At exactly EnabledAt the beneficiary is eligible.
	if err := br.RecordSpend(addrB1, decimal.NewFromInt(1), base.Add(DefaultCooldown)); err != nil {
		t.Fatalf("unexpected error at EnabledAt: %v", err)
	}
}

func TestBeneficiaryRegistry_RemovePreservesHistory(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	br := NewBeneficiaryRegistry()

	if _, err := br.Add(addrB1, DefaultWindow, decimal.NewFromInt(1000), 0, base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := br.RecordSpend(addrB1, decimal.NewFromInt(300), base.Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := br.Remove(addrB1, base.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Double removal is rejected.
	if err := br.Remove(addrB1, base.Add(2*time.Hour)); !errors.Is(err, ErrBeneficiaryRemoved) {
		t.Fatalf("expected ErrBeneficiaryRemoved, got %v", err)
	}

	// The record and its ledger survive removal.
	rec, err := br.Get(addrB1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entries := rec.Quota.Transfers(base.Add(2 * time.Hour)); len(entries) != 1 {
		t.Errorf("expected 1 surviving entry, got %d", len(entries))
	}
}
