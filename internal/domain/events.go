package domain

import "time"

// Event types
const (
	EventTypeWalletCreated            = "wallet.created"
	EventTypeWalletLimitChanged       = "wallet.limit_changed"
	EventTypeWalletAdjusted           = "wallet.adjusted"
	EventTypeTransferExecuted         = "transfer.executed"
	EventTypeArbitraryTransfer        = "transfer.arbitrary_executed"
	EventTypeBeneficiaryAdded         = "beneficiary.added"
	EventTypeBeneficiaryRemoved       = "beneficiary.removed"
	EventTypeBeneficiaryLimitChanged  = "beneficiary.limit_changed"
	EventTypeBeneficiaryAdjusted      = "beneficiary.adjusted"
)

// Aggregate types
const (
	AggregateTypeWallet      = "wallet"
	AggregateTypeBeneficiary = "beneficiary"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// WalletCreatedEvent payload
type WalletCreatedEvent struct {
	WalletID string `json:"wallet_id"`
	Limit    string `json:"limit"`
	Window   string `json:"window"`
}

// WalletLimitChangedEvent payload
type WalletLimitChangedEvent struct {
	WalletID string `json:"wallet_id"`
	NewLimit string `json:"new_limit"`
}

// WalletAdjustedEvent payload
type WalletAdjustedEvent struct {
	WalletID string `json:"wallet_id"`
	Delta    string `json:"delta"`
}

// TransferExecutedEvent payload
type TransferExecutedEvent struct {
	WalletID    string `json:"wallet_id"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	ExecutedAt  string `json:"executed_at"`
}

// ArbitraryTransferEvent payload
type ArbitraryTransferEvent struct {
	WalletID    string `json:"wallet_id"`
	Token       string `json:"token"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// BeneficiaryAddedEvent payload
type BeneficiaryAddedEvent struct {
	WalletID  string `json:"wallet_id"`
	Address   string `json:"address"`
	Limit     string `json:"limit"`
	EnabledAt string `json:"enabled_at"`
}

// BeneficiaryRemovedEvent payload
type BeneficiaryRemovedEvent struct {
	WalletID string `json:"wallet_id"`
	Address  string `json:"address"`
}

// BeneficiaryLimitChangedEvent payload
type BeneficiaryLimitChangedEvent struct {
	WalletID string `json:"wallet_id"`
	Address  string `json:"address"`
	NewLimit string `json:"new_limit"`
}

// BeneficiaryAdjustedEvent payload
type BeneficiaryAdjustedEvent struct {
	WalletID string `json:"wallet_id"`
	Address  string `json:"address"`
	Delta    string `json:"delta"`
}
