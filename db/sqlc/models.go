package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Wallet struct {
	ID                      uuid.UUID      `json:"id"`
	UserID                  int64          `json:"user_id"`
	WalletID                string         `json:"wallet_id"`
	Balance                 string         `json:"balance"`
	IsActive                bool           `json:"is_active"`
	VirtualAccountNumber    sql.NullString `json:"virtual_account_number"`
	VirtualBankName         sql.NullString `json:"virtual_bank_name"`
	VirtualAccountReference sql.NullString `json:"virtual_account_reference"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

type Transaction struct {
	ID                uuid.UUID            `json:"id"`
	WalletID          uuid.UUID            `json:"wallet_id"`
	RecipientWalletID uuid.NullUUID        `json:"recipient_wallet_id"`
	Amount            string               `json:"amount"`
	Type              string               `json:"type"`
	Status            string               `json:"status"`
	Reference         string               `json:"reference"`
	Narration         sql.NullString       `json:"narration"`
	Metadata          pqtype.NullRawMessage `json:"metadata"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}
