package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/spendguard/internal/infrastructure/auth"
)

var (
	baseURL   string
	timeout   time.Duration
	authToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spendguard-cli",
		Short: "SpendGuard CLI tool",
		Long:  `A command line interface for interacting with the SpendGuard API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SpendGuard API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token (when auth is enabled)")

	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(beneficiaryCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(generateTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var limit string
	var windowSeconds int64

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a new wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/wallets/", map[string]any{
				"limit":          limit,
				"window_seconds": windowSeconds,
			})
		},
	}
	createCmd.Flags().StringVar(&limit, "limit", "", "Wallet-wide transfer limit")
	createCmd.Flags().Int64Var(&windowSeconds, "window-seconds", 0, "Rolling window in seconds (0 = default 24h)")
	createCmd.MarkFlagRequired("limit")

	statusCmd := &cobra.Command{
		Use:   "status <wallet-id>",
		Short: "Show a wallet's limit and remaining quota",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/wallets/"+args[0]+"/", nil)
		},
	}

	transfersCmd := &cobra.Command{
		Use:   "transfers <wallet-id>",
		Short: "List the wallet's in-window ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/wallets/"+args[0]+"/transfers", nil)
		},
	}

	var newLimit string
	setLimitCmd := &cobra.Command{
		Use:   "set-limit <wallet-id>",
		Short: "Replace the wallet-wide limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPut, "/api/v1/wallets/"+args[0]+"/limit", map[string]any{
				"limit": newLimit,
			})
		},
	}
	setLimitCmd.Flags().StringVar(&newLimit, "limit", "", "New limit")
	setLimitCmd.MarkFlagRequired("limit")

	var delta string
	adjustCmd := &cobra.Command{
		Use:   "adjust <wallet-id>",
		Short: "Apply a temporary quota adjustment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodPost, "/api/v1/wallets/"+args[0]+"/adjustments", map[string]any{
				"delta": delta,
			})
		},
	}
	adjustCmd.Flags().StringVar(&delta, "delta", "", "Signed delta (positive decreases available quota)")
	adjustCmd.MarkFlagRequired("delta")

	cmd.AddCommand(createCmd, statusCmd, transfersCmd, setLimitCmd, adjustCmd)

	return cmd
}

func beneficiaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "beneficiary",
		Aliases: []string{"ben"},
		Short:   "Beneficiary operations",
	}

	var address, limit string
	var cooldownSeconds int64

	addCmd := &cobra.Command{
		Use:   "add <wallet-id>",
		Short: "Register a beneficiary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"address": address,
				"limit":   limit,
			}
			if cmd.Flags().Changed("cooldown-seconds") {
				body["cooldown_seconds"] = cooldownSeconds
			}
			return request(http.MethodPost, "/api/v1/wallets/"+args[0]+"/beneficiaries/", body)
		},
	}
	addCmd.Flags().StringVar(&address, "address", "", "Beneficiary address")
	addCmd.Flags().StringVar(&limit, "limit", "", "Per-beneficiary transfer limit")
	addCmd.Flags().Int64Var(&cooldownSeconds, "cooldown-seconds", 0, "Activation cooldown in seconds (default 24h)")
	addCmd.MarkFlagRequired("address")
	addCmd.MarkFlagRequired("limit")

	listCmd := &cobra.Command{
		Use:   "list <wallet-id>",
		Short: "List a wallet's beneficiaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodGet, "/api/v1/wallets/"+args[0]+"/beneficiaries/", nil)
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <wallet-id> <address>",
		Short: "Remove a beneficiary, blocking future spends",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return request(http.MethodDelete, "/api/v1/wallets/"+args[0]+"/beneficiaries/"+args[1]+"/", nil)
		},
	}

	cmd.AddCommand(addCmd, listCmd, removeCmd)

	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	var to, amount, idempotencyKey string

	sendCmd := &cobra.Command{
		Use:   "send <wallet-id>",
		Short: "Authorize a quota-checked transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return requestWithKey(http.MethodPost, "/api/v1/wallets/"+args[0]+"/transfers", map[string]any{
				"beneficiary": to,
				"amount":      amount,
			}, idempotencyKey)
		},
	}
	sendCmd.Flags().StringVar(&to, "to", "", "Beneficiary address")
	sendCmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	sendCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")

	cmd.AddCommand(sendCmd)

	return cmd
}

func generateTokenCmd() *cobra.Command {
	var secret, subject string
	var capabilities []string
	var expiration time.Duration

	cmd := &cobra.Command{
		Use:   "generate-token",
		Short: "Generate a JWT for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := auth.NewJWTManager(secret, expiration)
			token, err := manager.Generate(subject, capabilities)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret")
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().StringSliceVar(&capabilities, "capabilities", []string{"transfer"}, "Capabilities to grant (transfer, admin)")
	cmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "Token lifetime")
	cmd.MarkFlagRequired("secret")

	return cmd
}

func request(method, path string, body any) error {
	return requestWithKey(method, path, body, "")
}

func requestWithKey(method, path string, body any, idempotencyKey string) error {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if len(raw) > 0 {
		printRawJSON(raw)
	}

	return nil
}

func printRawJSON(raw []byte) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		fmt.Println(string(raw))
		return
	}
	printJSON(decoded)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
