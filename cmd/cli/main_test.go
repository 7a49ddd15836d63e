package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/iho/spendguard/internal/infrastructure/auth"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestPrintRawJSON_FallsBackOnInvalidJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printRawJSON([]byte("not-json"))
	})

	if strings.TrimSpace(out) != "not-json" {
		t.Fatalf("expected raw passthrough, got %q", out)
	}
}

func TestRequest_SendsAuthAndIdempotencyHeaders(t *testing.T) {
	var gotAuth, gotKey, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	origURL, origToken := baseURL, authToken
	baseURL = srv.URL
	authToken = "tok-123"
	defer func() { baseURL, authToken = origURL, origToken }()

	out := captureOutput(t, func() {
		if err := requestWithKey(http.MethodPost, "/api/v1/wallets/", map[string]any{"limit": "100"}, "key-1"); err != nil {
			t.Errorf("request failed: %v", err)
		}
	})

	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotKey != "key-1" {
		t.Fatalf("expected idempotency key, got %q", gotKey)
	}
	if gotPath != "/api/v1/wallets/" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(out, `"status": "ok"`) {
		t.Fatalf("expected pretty-printed response, got %q", out)
	}
}

func TestRequest_ErrorsOnFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"transfer rejected"}`))
	}))
	defer srv.Close()

	origURL := baseURL
	baseURL = srv.URL
	defer func() { baseURL = origURL }()

	err := request(http.MethodPost, "/api/v1/wallets/w1/transfers", map[string]any{"amount": "1"})
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("expected 402 error, got %v", err)
	}
}

func TestGenerateTokenCmd(t *testing.T) {
	cmd := generateTokenCmd()
	cmd.SetArgs([]string{"--secret", "test-secret", "--subject", "ops", "--capabilities", "admin"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Errorf("command failed: %v", err)
		}
	})

	token := strings.TrimSpace(out)
	if token == "" {
		t.Fatal("expected a token on stdout")
	}

	claims, err := auth.NewJWTManager("test-secret", 0).Verify(token)
	if err != nil {
		t.Fatalf("generated token failed verification: %v", err)
	}
	if claims.Subject != "ops" || !claims.HasCapability(auth.CapabilityTransfer) {
		t.Fatalf("unexpected claims %+v", claims)
	}
}
