package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/spendguard/internal/adapter/gateway"
	adaptershttp "github.com/iho/spendguard/internal/adapter/http"
	"github.com/iho/spendguard/internal/adapter/http/handler"
	"github.com/iho/spendguard/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/spendguard/internal/adapter/repository/redis"
	infraredis "github.com/iho/spendguard/internal/infrastructure/redis"
	"github.com/iho/spendguard/internal/usecase"
	"github.com/iho/spendguard/tests/testutil"
)

// Well-formed beneficiary addresses for tests.
const (
	addrAlice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrBob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	addrCarol = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// env wires the full HTTP stack against real Postgres and Redis. Transfers go
// through the log gateway, so no external custody service is needed.
type env struct {
	db          *testutil.TestDB
	router      http.Handler
	walletRepo  *postgres.WalletRepository
	entryRepo   *postgres.EntryRepository
	outboxRepo  *postgres.OutboxRepository
	engines     *usecase.EngineCache
	walletUC    *usecase.WalletUseCase
	beneficiary *usecase.BeneficiaryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithGateway(t, gateway.NewLogGateway(zerolog.Nop()))
}

// newEnvWithGateway lets tests swap in a failing gateway to exercise the
// rollback path.
func newEnvWithGateway(t *testing.T, tokenGateway usecase.TokenGateway) *env {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	walletRepo := postgres.NewWalletRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	beneficiaryRepo := postgres.NewBeneficiaryRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	engines := usecase.NewEngineCache(walletRepo, entryRepo, beneficiaryRepo, nil)

	walletUC := usecase.NewWalletUseCase(usecase.WalletUseCaseConfig{
		TxManager:     txManager,
		WalletRepo:    walletRepo,
		EntryRepo:     entryRepo,
		OutboxRepo:    outboxRepo,
		AuditRepo:     auditRepo,
		Gateway:       tokenGateway,
		Engines:       engines,
		IDGen:         idGen,
		Retrier:       retrier,
		DefaultWindow: 24 * time.Hour,
	})

	beneficiaryUC := usecase.NewBeneficiaryUseCase(usecase.BeneficiaryUseCaseConfig{
		TxManager:       txManager,
		BeneficiaryRepo: beneficiaryRepo,
		EntryRepo:       entryRepo,
		OutboxRepo:      outboxRepo,
		AuditRepo:       auditRepo,
		Engines:         engines,
		IDGen:           idGen,
		Retrier:         retrier,
		DefaultCooldown: 24 * time.Hour,
	})

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		WalletHandler:      handler.NewWalletHandler(walletUC),
		BeneficiaryHandler: handler.NewBeneficiaryHandler(beneficiaryUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   redisrepo.NewIdempotencyStore(redisClient),
	})

	return &env{
		db:          testDB,
		router:      router,
		walletRepo:  walletRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		engines:     engines,
		walletUC:    walletUC,
		beneficiary: beneficiaryUC,
	}
}

// do sends a JSON request through the router.
func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithKey(t, method, path, body, "")
}

func (e *env) doWithKey(t *testing.T, method, path string, body any, idempotencyKey string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		r.Header.Set("Idempotency-Key", idempotencyKey)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	return w
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return out
}

// createWallet provisions a wallet through the API and returns its ID.
func (e *env) createWallet(t *testing.T, limit string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/wallets/", map[string]any{"limit": limit})
	if w.Code != http.StatusCreated {
		t.Fatalf("wallet creation failed: %d %s", w.Code, w.Body.String())
	}

	resp := decodeJSON[struct {
		ID string `json:"id"`
	}](t, w)
	if resp.ID == "" {
		t.Fatal("wallet response missing id")
	}
	return resp.ID
}

// addBeneficiary registers a beneficiary with an explicit cooldown.
func (e *env) addBeneficiary(t *testing.T, walletID, address, limit string, cooldownSeconds int64) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/wallets/"+walletID+"/beneficiaries/", map[string]any{
		"address":          address,
		"limit":            limit,
		"cooldown_seconds": cooldownSeconds,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("beneficiary registration failed: %d %s", w.Code, w.Body.String())
	}
}
