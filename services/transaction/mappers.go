package transaction

import (
	"encoding/json"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

func ToTransactionModel(tx *db.Transaction) *Transaction {
	model := &Transaction{
		ID:        tx.ID,
		WalletID:  tx.WalletID,
		Amount:    decimal.RequireFromString(tx.Amount),
		Type:      TransactionType(tx.Type),
		Status:    TransactionStatus(tx.Status),
		Reference: tx.Reference,
		Narration: tx.Narration.String,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
	if tx.RecipientWalletID.Valid {
		recipient := tx.RecipientWalletID.UUID
		model.RecipientWalletID = &recipient
	}
	if tx.Metadata.Valid {
		var metadata map[string]interface{}
		if err := json.Unmarshal(tx.Metadata.RawMessage, &metadata); err == nil {
			model.Metadata = metadata
		}
	}
	return model
}

func toNullRawMessage(metadata map[string]interface{}) pqtype.NullRawMessage {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}

// mergeMetadata overlays extra keys onto a stored metadata document,
// e.g. a failure reason onto a pending withdrawal's bank details.
func mergeMetadata(stored pqtype.NullRawMessage, extra map[string]interface{}) pqtype.NullRawMessage {
	merged := map[string]interface{}{}
	if stored.Valid {
		_ = json.Unmarshal(stored.RawMessage, &merged)
	}
	for k, v := range extra {
		merged[k] = v
	}
	return toNullRawMessage(merged)
}
