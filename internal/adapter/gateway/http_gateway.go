package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

const (
	transferPath      = "/v1/transfers"
	tokenTransferPath = "/v1/token-transfers"

	defaultTimeout = 10 * time.Second
)

// HTTPGateway implements usecase.TokenGateway against a remote custody
// service. Transient failures (network errors, 5xx) are retried with
// exponential backoff; any 4xx response is permanent.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
	apiKey  string

	maxRetries      int
	initialInterval time.Duration
	maxElapsedTime  time.Duration
}

// NewHTTPGateway creates a gateway client for the given base URL.
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		client:          &http.Client{Timeout: defaultTimeout},
		baseURL:         baseURL,
		apiKey:          apiKey,
		maxRetries:      3,
		initialInterval: 100 * time.Millisecond,
		maxElapsedTime:  30 * time.Second,
	}
}

type transferPayload struct {
	Token       string          `json:"token,omitempty"`
	Destination string          `json:"destination"`
	Amount      decimal.Decimal `json:"amount"`
}

// Transfer moves the wallet's native token to destination.
func (g *HTTPGateway) Transfer(ctx context.Context, destination string, amount decimal.Decimal) error {
	return g.post(ctx, transferPath, transferPayload{
		Destination: destination,
		Amount:      amount,
	})
}

// TransferToken moves an arbitrary token to destination.
func (g *HTTPGateway) TransferToken(ctx context.Context, token, destination string, amount decimal.Decimal) error {
	return g.post(ctx, tokenTransferPath, transferPayload{
		Token:       token,
		Destination: destination,
		Amount:      amount,
	})
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload transferPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal gateway payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.initialInterval
	b.MaxElapsedTime = g.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := g.doRequest(ctx, path, body)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > g.maxRetries {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(b, ctx))
}

func (g *HTTPGateway) doRequest(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Code: resp.StatusCode, Detail: string(detail)}
}

// StatusError is a non-2xx response from the custody service.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.Code, e.Detail)
}
