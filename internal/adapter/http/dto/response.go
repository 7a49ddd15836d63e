package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/usecase"
)

// WalletResponse represents a wallet's quota state in API responses.
type WalletResponse struct {
	ID            string          `json:"id"`
	Limit         decimal.Decimal `json:"limit"`
	Remaining     decimal.Decimal `json:"remaining"`
	WindowSeconds int64           `json:"window_seconds"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WalletFromStatus converts a wallet status to a response.
func WalletFromStatus(s *usecase.WalletStatus) *WalletResponse {
	return &WalletResponse{
		ID:            s.ID,
		Limit:         s.Limit,
		Remaining:     s.Remaining,
		WindowSeconds: int64(s.Window / time.Second),
		CreatedAt:     s.CreatedAt,
	}
}

// BeneficiaryResponse represents a beneficiary in API responses.
type BeneficiaryResponse struct {
	Address   string          `json:"address"`
	Limit     decimal.Decimal `json:"limit"`
	Remaining decimal.Decimal `json:"remaining"`
	EnabledAt time.Time       `json:"enabled_at"`
	RemovedAt *time.Time      `json:"removed_at,omitempty"`
}

// BeneficiaryFromStatus converts a beneficiary status to a response.
func BeneficiaryFromStatus(s *domain.BeneficiaryStatus) *BeneficiaryResponse {
	return &BeneficiaryResponse{
		Address:   s.Address,
		Limit:     s.Limit,
		Remaining: s.Remaining,
		EnabledAt: s.EnabledAt,
		RemovedAt: s.RemovedAt,
	}
}

// BeneficiariesFromStatuses converts beneficiary statuses to responses.
func BeneficiariesFromStatuses(statuses []domain.BeneficiaryStatus) []*BeneficiaryResponse {
	result := make([]*BeneficiaryResponse, len(statuses))
	for i := range statuses {
		result[i] = BeneficiaryFromStatus(&statuses[i])
	}
	return result
}

// ListBeneficiariesResponse wraps a beneficiary listing.
type ListBeneficiariesResponse struct {
	Beneficiaries []*BeneficiaryResponse `json:"beneficiaries"`
	Total         int64                  `json:"total"`
}

// EntryResponse represents one signed ledger entry in API responses.
type EntryResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// EntriesFromDomain converts ledger entries to responses.
func EntriesFromDomain(entries []domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &EntryResponse{
			Amount:    e.Amount,
			Timestamp: e.Timestamp,
		}
	}
	return result
}

// ListEntriesResponse wraps an in-window entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferReceiptResponse represents a successfully authorized transfer.
type TransferReceiptResponse struct {
	TransferID           string          `json:"transfer_id"`
	WalletID             string          `json:"wallet_id"`
	Beneficiary          string          `json:"beneficiary"`
	Amount               decimal.Decimal `json:"amount"`
	WalletRemaining      decimal.Decimal `json:"wallet_remaining"`
	BeneficiaryRemaining decimal.Decimal `json:"beneficiary_remaining"`
	ExecutedAt           time.Time       `json:"executed_at"`
}

// ReceiptFromUseCase converts a transfer receipt to a response.
func ReceiptFromUseCase(r *usecase.TransferReceipt) *TransferReceiptResponse {
	return &TransferReceiptResponse{
		TransferID:           r.TransferID,
		WalletID:             r.WalletID,
		Beneficiary:          r.Beneficiary,
		Amount:               r.Amount,
		WalletRemaining:      r.WalletRemaining,
		BeneficiaryRemaining: r.BeneficiaryRemaining,
		ExecutedAt:           r.ExecutedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
