package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	ErrLimitExceeded       = errors.New("wallet limit exceeded")

	// Beneficiary errors
	ErrBeneficiaryNotFound      = errors.New("beneficiary not found")
	ErrBeneficiaryAlreadyExists = errors.New("beneficiary already registered")
	ErrBeneficiaryNotEnabled    = errors.New("beneficiary cooldown has not elapsed")
	ErrBeneficiaryLimitExceeded = errors.New("beneficiary limit exceeded")
	ErrBeneficiaryRemoved       = errors.New("beneficiary has been removed")

	// Input errors
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidLimit   = errors.New("limit must not be negative")
	ErrInvalidAddress = errors.New("invalid address")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
