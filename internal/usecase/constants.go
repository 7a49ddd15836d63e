package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// EntryRetentionSlack is how far past the window persisted entries are
	// kept before the retention sweep may delete them
	EntryRetentionSlack = time.Hour
)
