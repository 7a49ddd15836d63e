package integration

import (
	"net/http"
	"testing"

	"github.com/iho/spendguard/internal/adapter/http/dto"
	"github.com/iho/spendguard/tests/testutil"
)

func TestTransfer(t *testing.T) {
	e := newEnv(t)

	t.Run("authorized transfer debits both trackers", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "100.50",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.TransferReceiptResponse](t, w)
		if resp.TransferID == "" {
			t.Error("expected a transfer ID")
		}
		if resp.WalletRemaining.String() != "899.5" {
			t.Errorf("expected wallet remaining 899.5, got %s", resp.WalletRemaining)
		}
		if resp.BeneficiaryRemaining.String() != "399.5" {
			t.Errorf("expected beneficiary remaining 399.5, got %s", resp.BeneficiaryRemaining)
		}
	})

	t.Run("reject transfer over wallet limit", func(t *testing.T) {
		walletID := e.createWallet(t, "100")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "150",
		})
		if w.Code != http.StatusPaymentRequired {
			t.Errorf("expected status %d, got %d: %s", http.StatusPaymentRequired, w.Code, w.Body.String())
		}

		// The failed attempt must not consume quota.
		status := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/", nil)
		resp := decodeJSON[dto.WalletResponse](t, status)
		if resp.Remaining.String() != "100" {
			t.Errorf("expected remaining 100 after rejection, got %s", resp.Remaining)
		}
	})

	t.Run("reject transfer over beneficiary limit", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")
		e.addBeneficiary(t, walletID, addrAlice, "50", 0)

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "75",
		})
		if w.Code != http.StatusPaymentRequired {
			t.Errorf("expected status %d, got %d: %s", http.StatusPaymentRequired, w.Code, w.Body.String())
		}
	})

	t.Run("reject transfer to unknown beneficiary", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrBob,
			"amount":      "10",
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
		}
	})

	t.Run("reject non-positive amount", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "0",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("transfers appear in both ledgers", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", map[string]any{
			"beneficiary": addrAlice,
			"amount":      "60",
		})

		wallet := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/transfers", nil)
		walletEntries := decodeJSON[dto.ListEntriesResponse](t, wallet)
		if walletEntries.Total != 1 || walletEntries.Entries[0].Amount.String() != "60" {
			t.Errorf("unexpected wallet ledger: %s", wallet.Body.String())
		}

		ben := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/beneficiaries/"+addrAlice+"/transfers", nil)
		benEntries := decodeJSON[dto.ListEntriesResponse](t, ben)
		if benEntries.Total != 1 || benEntries.Entries[0].Amount.String() != "60" {
			t.Errorf("unexpected beneficiary ledger: %s", ben.Body.String())
		}
	})

	t.Run("idempotency returns cached receipt", func(t *testing.T) {
		walletID := e.createWallet(t, "1000")
		e.addBeneficiary(t, walletID, addrAlice, "500", 0)

		body := map[string]any{"beneficiary": addrAlice, "amount": "100"}
		key := "transfer-" + testutil.GenerateID()

		w1 := e.doWithKey(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", body, key)
		if w1.Code != http.StatusCreated {
			t.Fatalf("first request failed: %d %s", w1.Code, w1.Body.String())
		}
		resp1 := decodeJSON[dto.TransferReceiptResponse](t, w1)

		w2 := e.doWithKey(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/transfers", body, key)
		if w2.Code != http.StatusOK && w2.Code != http.StatusCreated {
			t.Fatalf("second request failed: %d %s", w2.Code, w2.Body.String())
		}
		resp2 := decodeJSON[dto.TransferReceiptResponse](t, w2)

		if resp1.TransferID != resp2.TransferID {
			t.Errorf("expected same transfer ID, got %s vs %s", resp1.TransferID, resp2.TransferID)
		}

		// Quota is only debited once.
		status := e.do(t, http.MethodGet, "/api/v1/wallets/"+walletID+"/", nil)
		resp := decodeJSON[dto.WalletResponse](t, status)
		if resp.Remaining.String() != "900" {
			t.Errorf("expected remaining 900 (debited once), got %s", resp.Remaining)
		}
	})
}
