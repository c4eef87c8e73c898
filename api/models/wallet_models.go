package models

import (
	"time"

	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/google/uuid"
)

type WalletResponse struct {
	ID                   uuid.UUID `json:"id"`
	UserID               ID        `json:"user_id"`
	WalletID             string    `json:"wallet_id"`
	Balance              string    `json:"balance"`
	IsActive             bool      `json:"is_active"`
	VirtualAccountNumber string    `json:"virtual_account_number,omitempty"`
	VirtualBankName      string    `json:"virtual_bank_name,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func ToWalletResponse(w *wallet.WalletModel) *WalletResponse {
	return &WalletResponse{
		ID:                   w.ID,
		UserID:               ID(w.UserID),
		WalletID:             w.WalletID,
		Balance:              w.Balance.StringFixed(2),
		IsActive:             w.IsActive,
		VirtualAccountNumber: w.VirtualAccountNumber,
		VirtualBankName:      w.VirtualBankName,
		CreatedAt:            w.CreatedAt,
		UpdatedAt:            w.UpdatedAt,
	}
}
