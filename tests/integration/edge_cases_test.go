package integration

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/adapter/http/dto"
)

type failingGateway struct{}

func (failingGateway) Transfer(context.Context, string, decimal.Decimal) error {
	return errors.New("custody service unavailable")
}

func (failingGateway) TransferToken(context.Context, string, string, decimal.Decimal) error {
	return errors.New("custody service unavailable")
}

// A gateway failure must leave every ledger exactly as it was before the
// attempt, both in memory and in the database.
func TestGatewayFailureRollsBack(t *testing.T) {
	e := newEnvWithGateway(t, failingGateway{})

	walletID := e.createWallet(t, "1000")
	e.addBeneficiary(t, walletID, addrAlice, "500", 0)

	w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
		"beneficiary": addrAlice,
		"amount":      "100",
	})
	if w.Code == http.StatusCreated {
		t.Fatalf("expected transfer to fail, got %d: %s", w.Code, w.Body.String())
	}

	status := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/", nil)
	resp := decodeJSON[dto.WalletResponse](t, status)
	if resp.Remaining.String() != "1000" {
		t.Errorf("expected remaining 1000 after rollback, got %s", resp.Remaining)
	}

	ben := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/beneficiaries/"+addrAlice+"/", nil)
	benResp := decodeJSON[dto.BeneficiaryResponse](t, ben)
	if benResp.Remaining.String() != "500" {
		t.Errorf("expected beneficiary remaining 500 after rollback, got %s", benResp.Remaining)
	}

	entries := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/transfers", nil)
	list := decodeJSON[dto.ListEntriesResponse](t, entries)
	if list.Total != 0 {
		t.Errorf("expected no persisted entries, got %d", list.Total)
	}
}

func TestQuotaBoundaries(t *testing.T) {
	e := newEnv(t)

	t.Run("transfer of the exact remaining quota succeeds", func(t *testing.T) {
		walletID := e.createWallet(t, "100")
		e.addBeneficiary(t, walletID, addrAlice, "100", 0)

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "100",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected exact-limit transfer to succeed, got %d: %s", w.Code, w.Body.String())
		}

		// The quota is now exhausted; even the smallest transfer fails.
		w = e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "0.01",
		})
		if w.Code != http.StatusPaymentRequired {
			t.Errorf("expected status %d, got %d: %s", http.StatusPaymentRequired, w.Code, w.Body.String())
		}
	})

	t.Run("credit adjustment unlocks a transfer above the limit", func(t *testing.T) {
		walletID := e.createWallet(t, "100")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		// 150 exceeds the wallet limit until a credit raises the quota.
		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "150",
		})
		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected rejection before adjustment, got %d", w.Code)
		}

		adjust := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/adjustments", map[string]any{"delta": "-100"})
		if adjust.Code != http.StatusOK {
			t.Fatalf("adjustment failed: %d %s", adjust.Code, adjust.Body.String())
		}

		w = e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "150",
		})
		if w.Code != http.StatusCreated {
			t.Errorf("expected transfer to succeed after credit, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("fractional amounts accumulate exactly", func(t *testing.T) {
		walletID := e.createWallet(t, "1")
		e.addBeneficiary(t, walletID, addrAlice, "1", 0)

		for range 10 {
			w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
				"beneficiary": addrAlice,
				"amount":      "0.1",
			})
			if w.Code != http.StatusCreated {
				t.Fatalf("fractional transfer failed: %d %s", w.Code, w.Body.String())
			}
		}

		status := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/", nil)
		resp := decodeJSON[dto.WalletResponse](t, status)
		if !resp.Remaining.IsZero() {
			t.Errorf("expected remaining 0 after ten 0.1 transfers, got %s", resp.Remaining)
		}
	})
}

// The admin escape hatch moves funds without touching the quota trackers.
func TestArbitraryTransferBypassesQuota(t *testing.T) {
	e := newEnv(t)

	walletID := e.createWallet(t, "100")

	w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/arbitrary-transfers", map[string]any{
		"token":       "USDC",
		"destination": addrBob,
		"amount":      "5000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected arbitrary transfer to succeed, got %d: %s", w.Code, w.Body.String())
	}

	status := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/", nil)
	resp := decodeJSON[dto.WalletResponse](t, status)
	if resp.Remaining.String() != "100" {
		t.Errorf("expected quota untouched, got remaining %s", resp.Remaining)
	}
}
