package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCreateWalletRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateWalletRequest{
		Limit:         decimal.RequireFromString("1000"),
		WindowSeconds: 3600,
	}

	got := req.ToUseCaseInput()
	if !got.Limit.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("unexpected limit: %s", got.Limit)
	}
	if got.Window != time.Hour {
		t.Fatalf("expected 1h window, got %s", got.Window)
	}
}

func TestCreateWalletRequest_ZeroWindowMeansDefault(t *testing.T) {
	req := &CreateWalletRequest{Limit: decimal.NewFromInt(100)}

	if got := req.ToUseCaseInput(); got.Window != 0 {
		t.Fatalf("expected zero window to pass through, got %s", got.Window)
	}
}

func TestAddBeneficiaryRequest_ToUseCaseInput(t *testing.T) {
	cooldown := int64(7200)

	tests := []struct {
		name         string
		request      *AddBeneficiaryRequest
		wantCooldown *time.Duration
	}{
		{
			name: "explicit cooldown",
			request: &AddBeneficiaryRequest{
				Address:         "0xabc",
				Limit:           decimal.NewFromInt(500),
				CooldownSeconds: &cooldown,
			},
			wantCooldown: durationPtr(2 * time.Hour),
		},
		{
			name: "omitted cooldown",
			request: &AddBeneficiaryRequest{
				Address: "0xabc",
				Limit:   decimal.NewFromInt(500),
			},
			wantCooldown: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.request.ToUseCaseInput("wlt-1")

			if got.WalletID != "wlt-1" || got.Address != "0xabc" {
				t.Fatalf("unexpected identity fields: %+v", got)
			}
			if !got.Limit.Equal(decimal.NewFromInt(500)) {
				t.Fatalf("unexpected limit: %s", got.Limit)
			}

			if tt.wantCooldown == nil {
				if got.Cooldown != nil {
					t.Fatalf("expected nil cooldown, got %v", *got.Cooldown)
				}
				return
			}
			if got.Cooldown == nil || *got.Cooldown != *tt.wantCooldown {
				t.Fatalf("expected cooldown %v, got %v", *tt.wantCooldown, got.Cooldown)
			}
		})
	}
}

func TestAddBeneficiaryRequest_ZeroCooldownIsExplicit(t *testing.T) {
	zero := int64(0)
	req := &AddBeneficiaryRequest{
		Address:         "0xabc",
		Limit:           decimal.NewFromInt(100),
		CooldownSeconds: &zero,
	}

	got := req.ToUseCaseInput("wlt-1")
	if got.Cooldown == nil || *got.Cooldown != 0 {
		t.Fatalf("expected explicit zero cooldown, got %v", got.Cooldown)
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
