package models

import (
	"time"

	"github.com/NexaPay/NexaPay-Backend/services/transaction"
	"github.com/google/uuid"
)

type TransactionCollectionResponse []TransactionResponse

type TransactionResponse struct {
	ID                uuid.UUID              `json:"id"`
	WalletID          uuid.UUID              `json:"wallet_id"`
	RecipientWalletID *uuid.UUID             `json:"recipient_wallet_id,omitempty"`
	Amount            string                 `json:"amount"`
	Type              string                 `json:"transaction_type"`
	Status            string                 `json:"status"`
	Reference         string                 `json:"reference"`
	Narration         string                 `json:"narration,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func ToTransactionResponse(t *transaction.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                t.ID,
		WalletID:          t.WalletID,
		RecipientWalletID: t.RecipientWalletID,
		Amount:            t.Amount.StringFixed(2),
		Type:              string(t.Type),
		Status:            string(t.Status),
		Reference:         t.Reference,
		Narration:         t.Narration,
		Metadata:          t.Metadata,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func ToTransactionCollectionResponse(txns []*transaction.Transaction) TransactionCollectionResponse {
	responses := make(TransactionCollectionResponse, 0, len(txns))
	for _, t := range txns {
		responses = append(responses, *ToTransactionResponse(t))
	}
	return responses
}

// TransferResponse pairs the two ledger rows of one transfer.
type TransferResponse struct {
	Outgoing *TransactionResponse `json:"outgoing"`
	Incoming *TransactionResponse `json:"incoming"`
}
