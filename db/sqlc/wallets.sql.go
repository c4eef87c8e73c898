package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const createWallet = `
INSERT INTO wallets (user_id, wallet_id, balance)
VALUES ($1, $2, $3)
RETURNING id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
`

type CreateWalletParams struct {
	UserID   int64  `json:"user_id"`
	WalletID string `json:"wallet_id"`
	Balance  string `json:"balance"`
}

func (q *Queries) CreateWallet(ctx context.Context, arg CreateWalletParams) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, createWallet, arg.UserID, arg.WalletID, arg.Balance)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByUserID = `
SELECT id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
FROM wallets
WHERE user_id = $1
`

func (q *Queries) GetWalletByUserID(ctx context.Context, userID int64) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, getWalletByUserID, userID)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletByWalletID = `
SELECT id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
FROM wallets
WHERE wallet_id = $1
`

func (q *Queries) GetWalletByWalletID(ctx context.Context, walletID string) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, getWalletByWalletID, walletID)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletForUpdate = `
SELECT id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
FROM wallets
WHERE id = $1
FOR UPDATE
`

// GetWalletForUpdate locks the wallet row for the remainder of the enclosing
// database transaction so concurrent debits serialize on it.
func (q *Queries) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, getWalletForUpdate, id)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateWalletBalance = `
UPDATE wallets
SET balance = $2, updated_at = now()
WHERE id = $1
RETURNING id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
`

type UpdateWalletBalanceParams struct {
	ID      uuid.UUID `json:"id"`
	Balance string    `json:"balance"`
}

func (q *Queries) UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, updateWalletBalance, arg.ID, arg.Balance)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateWalletVirtualAccount = `
UPDATE wallets
SET virtual_account_number = $2, virtual_bank_name = $3, virtual_account_reference = $4, updated_at = now()
WHERE id = $1
RETURNING id, user_id, wallet_id, balance, is_active, virtual_account_number, virtual_bank_name, virtual_account_reference, created_at, updated_at
`

type UpdateWalletVirtualAccountParams struct {
	ID                      uuid.UUID      `json:"id"`
	VirtualAccountNumber    sql.NullString `json:"virtual_account_number"`
	VirtualBankName         sql.NullString `json:"virtual_bank_name"`
	VirtualAccountReference sql.NullString `json:"virtual_account_reference"`
}

func (q *Queries) UpdateWalletVirtualAccount(ctx context.Context, arg UpdateWalletVirtualAccountParams) (Wallet, error) {
	row := q.db.QueryRowContext(ctx, updateWalletVirtualAccount,
		arg.ID,
		arg.VirtualAccountNumber,
		arg.VirtualBankName,
		arg.VirtualAccountReference,
	)
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.WalletID,
		&i.Balance,
		&i.IsActive,
		&i.VirtualAccountNumber,
		&i.VirtualBankName,
		&i.VirtualAccountReference,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteWallet = `
DELETE FROM wallets
WHERE id = $1
`

func (q *Queries) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteWallet, id)
	return err
}
