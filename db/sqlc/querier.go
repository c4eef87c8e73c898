package db

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the set of queries the service layer runs, both directly and
// inside Store.ExecTx units. Satisfied by *Queries and by the in-memory
// store used in tests.
type Querier interface {
	CreateWallet(ctx context.Context, arg CreateWalletParams) (Wallet, error)
	GetWalletByUserID(ctx context.Context, userID int64) (Wallet, error)
	GetWalletByWalletID(ctx context.Context, walletID string) (Wallet, error)
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (Wallet, error)
	UpdateWalletBalance(ctx context.Context, arg UpdateWalletBalanceParams) (Wallet, error)
	UpdateWalletVirtualAccount(ctx context.Context, arg UpdateWalletVirtualAccountParams) (Wallet, error)
	DeleteWallet(ctx context.Context, id uuid.UUID) error
	CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (Transaction, error)
	GetTransactionByReference(ctx context.Context, reference string) (Transaction, error)
	UpdateTransactionStatus(ctx context.Context, arg UpdateTransactionStatusParams) (Transaction, error)
	ListWalletTransactions(ctx context.Context, arg ListWalletTransactionsParams) ([]Transaction, error)
	CountWalletTransactions(ctx context.Context, walletID uuid.UUID) (int64, error)
}

var _ Querier = (*Queries)(nil)
