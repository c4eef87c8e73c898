package wallet

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/NexaPay/NexaPay-Backend/utils"
	"github.com/google/uuid"
)

const walletIDPrefix = "NEXA"

// VirtualAccountCreator is the slice of the Payscribe client the wallet
// service needs; tests substitute a stub.
type VirtualAccountCreator interface {
	CreateVirtualAccount(email string, walletID string) *payscribe.ProviderResult
}

type WalletService struct {
	store   db.Store
	gateway VirtualAccountCreator
	logger  *logging.Logger
}

func NewWalletService(store db.Store, gateway VirtualAccountCreator, logger *logging.Logger) *WalletService {
	return &WalletService{
		store:   store,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateWallet opens the single wallet for a user and asks Payscribe for a
// virtual funding account. A provider failure leaves the wallet usable but
// unbound; the binding can be retried later.
func (w *WalletService) CreateWallet(ctx context.Context, userID int64, email string) (*WalletModel, error) {
	var created db.Wallet
	var err error
	for i := 0; i < 3; i++ {
		created, err = w.store.CreateWallet(ctx, db.CreateWalletParams{
			UserID:   userID,
			WalletID: generateWalletID(),
			Balance:  "0.00",
		})
		if err == nil || !db.IsDuplicateEntry(err) {
			break
		}
		// a wallet_id collision regenerates; a second wallet for the
		// same user does not
		if w.userHasWallet(ctx, userID) {
			return nil, ErrWalletExists
		}
	}
	if err != nil {
		w.logger.Error("could not create wallet", err)
		return nil, ErrWalletNotPossible
	}

	if w.gateway != nil {
		result := w.gateway.CreateVirtualAccount(email, created.WalletID)
		if !result.Success {
			w.logger.Error("virtual account creation failed", result.Error)
			return ToWalletModel(created), nil
		}

		account, err := payscribe.ParseVirtualAccount(result)
		if err != nil {
			w.logger.Error("could not parse virtual account payload", err)
			return ToWalletModel(created), nil
		}

		created, err = w.store.UpdateWalletVirtualAccount(ctx, db.UpdateWalletVirtualAccountParams{
			ID:                      created.ID,
			VirtualAccountNumber:    sql.NullString{String: account.AccountNumber, Valid: account.AccountNumber != ""},
			VirtualBankName:         sql.NullString{String: account.BankName, Valid: account.BankName != ""},
			VirtualAccountReference: sql.NullString{String: account.Reference, Valid: account.Reference != ""},
		})
		if err != nil {
			return nil, fmt.Errorf("bind virtual account: %w", err)
		}
	}

	return ToWalletModel(created), nil
}

func (w *WalletService) GetWalletByUserID(ctx context.Context, userID int64) (*WalletModel, error) {
	wallet, err := w.store.GetWalletByUserID(ctx, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}
	return ToWalletModel(wallet), nil
}

// GetWalletByWalletID resolves the external, shareable wallet ID.
func (w *WalletService) GetWalletByWalletID(ctx context.Context, walletID string) (*WalletModel, error) {
	wallet, err := w.store.GetWalletByWalletID(ctx, walletID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}
	return ToWalletModel(wallet), nil
}

// DeleteWallet removes a wallet only when no transaction references it.
// The FK constraint backs this up at the database level.
func (w *WalletService) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	count, err := w.store.CountWalletTransactions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrWalletHasTransactions
	}

	err = w.store.DeleteWallet(ctx, id)
	if err == sql.ErrNoRows {
		return ErrWalletNotFound
	} else if db.IsForeignKeyViolation(err) {
		return ErrWalletHasTransactions
	}
	return err
}

func (w *WalletService) userHasWallet(ctx context.Context, userID int64) bool {
	_, err := w.store.GetWalletByUserID(ctx, userID)
	return err == nil
}

func generateWalletID() string {
	return walletIDPrefix + utils.GenerateRandomString(10)
}
