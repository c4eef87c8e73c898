package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createTransaction = `
INSERT INTO transactions (wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata, created_at, updated_at
`

type CreateTransactionParams struct {
	WalletID          uuid.UUID             `json:"wallet_id"`
	RecipientWalletID uuid.NullUUID         `json:"recipient_wallet_id"`
	Amount            string                `json:"amount"`
	Type              string                `json:"type"`
	Status            string                `json:"status"`
	Reference         string                `json:"reference"`
	Narration         sql.NullString        `json:"narration"`
	Metadata          pqtype.NullRawMessage `json:"metadata"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.WalletID,
		arg.RecipientWalletID,
		arg.Amount,
		arg.Type,
		arg.Status,
		arg.Reference,
		arg.Narration,
		arg.Metadata,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.RecipientWalletID,
		&i.Amount,
		&i.Type,
		&i.Status,
		&i.Reference,
		&i.Narration,
		&i.Metadata,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransaction = `
SELECT id, wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata, created_at, updated_at
FROM transactions
WHERE id = $1
`

func (q *Queries) GetTransaction(ctx context.Context, id uuid.UUID) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.RecipientWalletID,
		&i.Amount,
		&i.Type,
		&i.Status,
		&i.Reference,
		&i.Narration,
		&i.Metadata,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransactionByReference = `
SELECT id, wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata, created_at, updated_at
FROM transactions
WHERE reference = $1
`

func (q *Queries) GetTransactionByReference(ctx context.Context, reference string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransactionByReference, reference)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.RecipientWalletID,
		&i.Amount,
		&i.Type,
		&i.Status,
		&i.Reference,
		&i.Narration,
		&i.Metadata,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateTransactionStatus = `
UPDATE transactions
SET status = $2, metadata = $3, updated_at = now()
WHERE id = $1 AND status = 'PENDING'
RETURNING id, wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata, created_at, updated_at
`

// UpdateTransactionStatusParams transitions a PENDING row; the WHERE guard
// makes terminal rows unreachable, so a concurrent finalize that read a
// stale PENDING status gets sql.ErrNoRows instead of a double apply.
type UpdateTransactionStatusParams struct {
	ID       uuid.UUID             `json:"id"`
	Status   string                `json:"status"`
	Metadata pqtype.NullRawMessage `json:"metadata"`
}

func (q *Queries) UpdateTransactionStatus(ctx context.Context, arg UpdateTransactionStatusParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, updateTransactionStatus, arg.ID, arg.Status, arg.Metadata)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.WalletID,
		&i.RecipientWalletID,
		&i.Amount,
		&i.Type,
		&i.Status,
		&i.Reference,
		&i.Narration,
		&i.Metadata,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listWalletTransactions = `
SELECT id, wallet_id, recipient_wallet_id, amount, type, status, reference, narration, metadata, created_at, updated_at
FROM transactions
WHERE wallet_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListWalletTransactionsParams struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Limit    int32     `json:"limit"`
	Offset   int32     `json:"offset"`
}

func (q *Queries) ListWalletTransactions(ctx context.Context, arg ListWalletTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listWalletTransactions, arg.WalletID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.WalletID,
			&i.RecipientWalletID,
			&i.Amount,
			&i.Type,
			&i.Status,
			&i.Reference,
			&i.Narration,
			&i.Metadata,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countWalletTransactions = `
SELECT count(*)
FROM transactions
WHERE wallet_id = $1 OR recipient_wallet_id = $1
`

func (q *Queries) CountWalletTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countWalletTransactions, walletID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
