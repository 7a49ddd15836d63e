package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/usecase"
)

// CreateWalletRequest represents a request to provision a wallet.
type CreateWalletRequest struct {
	Limit         decimal.Decimal `json:"limit"`
	WindowSeconds int64           `json:"window_seconds,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateWalletRequest) ToUseCaseInput() usecase.CreateWalletInput {
	return usecase.CreateWalletInput{
		Limit:  r.Limit,
		Window: time.Duration(r.WindowSeconds) * time.Second,
	}
}

// SetLimitRequest represents a request to replace a limit.
type SetLimitRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// AdjustmentRequest represents a temporary quota adjustment. A positive delta
// decreases the available quota, a negative delta increases it.
type AdjustmentRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// TransferRequest represents a quota-checked transfer.
type TransferRequest struct {
	Beneficiary string          `json:"beneficiary"`
	Amount      decimal.Decimal `json:"amount"`
}

// ArbitraryTransferRequest represents the admin escape hatch.
type ArbitraryTransferRequest struct {
	Token       string          `json:"token"`
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
}

// AddBeneficiaryRequest represents a beneficiary registration.
type AddBeneficiaryRequest struct {
	Address         string          `json:"address"`
	Limit           decimal.Decimal `json:"limit"`
	CooldownSeconds *int64          `json:"cooldown_seconds,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddBeneficiaryRequest) ToUseCaseInput(walletID string) usecase.AddBeneficiaryInput {
	input := usecase.AddBeneficiaryInput{
		WalletID: walletID,
		Address:  r.Address,
		Limit:    r.Limit,
	}

	if r.CooldownSeconds != nil {
		cooldown := time.Duration(*r.CooldownSeconds) * time.Second
		input.Cooldown = &cooldown
	}

	return input
}
