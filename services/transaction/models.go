package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
	TypeTransfer   TransactionType = "TRANSFER"
	TypePayment    TransactionType = "PAYMENT"
	TypeAirtime    TransactionType = "AIRTIME"
	TypeData       TransactionType = "DATA"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	StatusReversed  TransactionStatus = "REVERSED"
)

// Terminal statuses admit no further transitions.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusReversed:
		return true
	}
	return false
}

type Transaction struct {
	ID                uuid.UUID              `json:"id"`
	WalletID          uuid.UUID              `json:"wallet_id"`
	RecipientWalletID *uuid.UUID             `json:"recipient_wallet_id,omitempty"`
	Amount            decimal.Decimal        `json:"amount"`
	Type              TransactionType        `json:"transaction_type"`
	Status            TransactionStatus      `json:"status"`
	Reference         string                 `json:"reference"`
	Narration         string                 `json:"narration,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}
