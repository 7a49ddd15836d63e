package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTransferAmount = "1000000000000" // 1 trillion
)

var addressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateAddress validates a beneficiary or destination address.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)

	if !addressRegex.MatchString(address) {
		return fmt.Errorf("%w: %q is not a 20-byte hex address", ErrInvalidAddress, address)
	}

	return nil
}

// ValidateAmount validates a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransferAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransferAmount)
	}

	return nil
}

// ValidateLimit validates a quota limit.
func ValidateLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return ErrInvalidLimit
	}

	return nil
}

// ValidateDelta validates a temporary adjustment magnitude.
func ValidateDelta(delta decimal.Decimal) error {
	if delta.IsZero() {
		return fmt.Errorf("%w: delta must be non-zero", ErrInvalidAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
