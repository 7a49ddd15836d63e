package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/adapter/http/dto"
	"github.com/iho/spendguard/internal/domain"
	"github.com/iho/spendguard/internal/usecase"
)

// BeneficiaryService defines the behavior needed by BeneficiaryHandler.
type BeneficiaryService interface {
	AddBeneficiary(ctx context.Context, input usecase.AddBeneficiaryInput) (*domain.BeneficiaryStatus, error)
	RemoveBeneficiary(ctx context.Context, walletID, address string) error
	GetBeneficiary(ctx context.Context, walletID, address string) (*domain.BeneficiaryStatus, error)
	ListBeneficiaries(ctx context.Context, walletID string) ([]domain.BeneficiaryStatus, error)
	ListTransfers(ctx context.Context, walletID, address string) ([]domain.Entry, error)
	SetLimit(ctx context.Context, walletID, address string, newLimit decimal.Decimal) error
	AdjustQuota(ctx context.Context, walletID, address string, delta decimal.Decimal) error
}

// BeneficiaryHandler handles beneficiary-related HTTP requests.
type BeneficiaryHandler struct {
	beneficiaryUC BeneficiaryService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler.
func NewBeneficiaryHandler(beneficiaryUC BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaryUC: beneficiaryUC}
}

// Add registers a beneficiary with its own quota and cooldown.
func (h *BeneficiaryHandler) Add(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	var req dto.AddBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, err := h.beneficiaryUC.AddBeneficiary(r.Context(), req.ToUseCaseInput(walletID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add beneficiary", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BeneficiaryFromStatus(status))
}

// List returns all beneficiaries in registration order.
func (h *BeneficiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	statuses, err := h.beneficiaryUC.ListBeneficiaries(r.Context(), walletID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list beneficiaries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListBeneficiariesResponse{
		Beneficiaries: dto.BeneficiariesFromStatuses(statuses),
		Total:         int64(len(statuses)),
	})
}

// Get returns one beneficiary's quota state and activation time.
func (h *BeneficiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	address := chi.URLParam(r, "address")

	status, err := h.beneficiaryUC.GetBeneficiary(r.Context(), walletID, address)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get beneficiary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BeneficiaryFromStatus(status))
}

// ListTransfers returns one beneficiary's in-window ledger entries.
func (h *BeneficiaryHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	address := chi.URLParam(r, "address")

	entries, err := h.beneficiaryUC.ListTransfers(r.Context(), walletID, address)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// SetLimit replaces one beneficiary's limit.
func (h *BeneficiaryHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	address := chi.URLParam(r, "address")

	var req dto.SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.beneficiaryUC.SetLimit(r.Context(), walletID, address, req.Limit); err != nil {
		writeError(w, mapDomainError(err), "failed to set limit", err.Error())
		return
	}

	status, err := h.beneficiaryUC.GetBeneficiary(r.Context(), walletID, address)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get beneficiary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BeneficiaryFromStatus(status))
}

// Adjust applies a temporary adjustment to one beneficiary's quota.
func (h *BeneficiaryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	address := chi.URLParam(r, "address")

	var req dto.AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.beneficiaryUC.AdjustQuota(r.Context(), walletID, address, req.Delta); err != nil {
		writeError(w, mapDomainError(err), "failed to adjust quota", err.Error())
		return
	}

	status, err := h.beneficiaryUC.GetBeneficiary(r.Context(), walletID, address)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get beneficiary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BeneficiaryFromStatus(status))
}

// Remove blocks future spends to the address, preserving history.
func (h *BeneficiaryHandler) Remove(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")
	address := chi.URLParam(r, "address")

	if err := h.beneficiaryUC.RemoveBeneficiary(r.Context(), walletID, address); err != nil {
		writeError(w, mapDomainError(err), "failed to remove beneficiary", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
