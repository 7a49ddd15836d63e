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

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	CreateWallet(ctx context.Context, input usecase.CreateWalletInput) (*usecase.WalletStatus, error)
	GetStatus(ctx context.Context, walletID string) (*usecase.WalletStatus, error)
	ListTransfers(ctx context.Context, walletID string) ([]domain.Entry, error)
	SetLimit(ctx context.Context, walletID string, newLimit decimal.Decimal) error
	AdjustQuota(ctx context.Context, walletID string, delta decimal.Decimal) error
	AuthorizeTransfer(ctx context.Context, walletID, beneficiary string, amount decimal.Decimal) (*usecase.TransferReceipt, error)
	AuthorizeArbitraryTransfer(ctx context.Context, walletID, token, destination string, amount decimal.Decimal) error
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Create provisions a new wallet.
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, err := h.walletUC.CreateWallet(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.WalletFromStatus(status))
}

// Get returns a wallet's limit and remaining quota.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wallet ID", "")
		return
	}

	status, err := h.walletUC.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromStatus(status))
}

// ListTransfers returns the wallet's in-window ledger entries.
func (h *WalletHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entries, err := h.walletUC.ListTransfers(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// SetLimit replaces the wallet-wide limit.
func (h *WalletHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SetLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.SetLimit(r.Context(), id, req.Limit); err != nil {
		writeError(w, mapDomainError(err), "failed to set limit", err.Error())
		return
	}

	status, err := h.walletUC.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromStatus(status))
}

// Adjust applies a temporary quota adjustment that decays after one window.
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.AdjustQuota(r.Context(), id, req.Delta); err != nil {
		writeError(w, mapDomainError(err), "failed to adjust quota", err.Error())
		return
	}

	status, err := h.walletUC.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromStatus(status))
}

// Transfer runs the quota-checked transfer authorization.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	receipt, err := h.walletUC.AuthorizeTransfer(r.Context(), id, req.Beneficiary, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "transfer rejected", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReceiptFromUseCase(receipt))
}

// ArbitraryTransfer is the admin escape hatch, bypassing both quota trackers.
func (h *WalletHandler) ArbitraryTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ArbitraryTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.walletUC.AuthorizeArbitraryTransfer(r.Context(), id, req.Token, req.Destination, req.Amount); err != nil {
		writeError(w, mapDomainError(err), "arbitrary transfer failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "executed"})
}
