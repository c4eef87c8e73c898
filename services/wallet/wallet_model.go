package wallet

import (
	"time"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletModel struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               int64           `json:"user_id"`
	WalletID             string          `json:"wallet_id"`
	Balance              decimal.Decimal `json:"balance"`
	IsActive             bool            `json:"is_active"`
	VirtualAccountNumber string          `json:"virtual_account_number,omitempty"`
	VirtualBankName      string          `json:"virtual_bank_name,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func ToWalletModel(wallet db.Wallet) *WalletModel {
	return &WalletModel{
		ID:                   wallet.ID,
		UserID:               wallet.UserID,
		WalletID:             wallet.WalletID,
		Balance:              decimal.RequireFromString(wallet.Balance),
		IsActive:             wallet.IsActive,
		VirtualAccountNumber: wallet.VirtualAccountNumber.String,
		VirtualBankName:      wallet.VirtualBankName.String,
		CreatedAt:            wallet.CreatedAt,
		UpdatedAt:            wallet.UpdatedAt,
	}
}
