package transaction

import (
	"context"
	"database/sql"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/NexaPay/NexaPay-Backend/services/events"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService is the only component that mutates wallet balances.
// Every operation runs as one atomic store unit: the transaction row and the
// balance adjustment commit together or not at all, with the wallet row
// locked before any sufficiency check.
type TransactionService struct {
	store     db.Store
	publisher *events.Publisher
	logger    *logging.Logger
}

func NewTransactionService(store db.Store, publisher *events.Publisher, logger *logging.Logger) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// runLedgerUnit retries the unit on duplicate-reference errors. Closures
// that generate their own references must generate fresh ones per attempt.
func (s *TransactionService) runLedgerUnit(ctx context.Context, attempts int, fq func(q db.Querier) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = s.store.ExecTx(ctx, fq)
		if err == nil || !db.IsDuplicateEntry(err) {
			return err
		}
	}
	return err
}

func lockActiveWallet(ctx context.Context, q db.Querier, id uuid.UUID) (db.Wallet, error) {
	wallet, err := q.GetWalletForUpdate(ctx, id)
	if err == sql.ErrNoRows {
		return db.Wallet{}, ErrWalletNotFound
	} else if err != nil {
		return db.Wallet{}, err
	}
	if !wallet.IsActive {
		return db.Wallet{}, ErrWalletInactive
	}
	return wallet, nil
}

// CreateDeposit credits the wallet and records a COMPLETED deposit in one
// unit. A caller-supplied reference (e.g. from a funding webhook) makes
// retries idempotent: the replay fails with ErrDuplicateReference and the
// balance reflects a single application.
func (s *TransactionService) CreateDeposit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, reference string, metadata map[string]interface{}) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	generated := reference == ""
	attempts := 1
	if generated {
		attempts = maxReferenceAttempts
	}

	var created db.Transaction
	err := s.runLedgerUnit(ctx, attempts, func(q db.Querier) error {
		ref := reference
		if generated {
			ref = GenerateReference(PrefixDeposit)
		}

		wallet, err := lockActiveWallet(ctx, q, walletID)
		if err != nil {
			return err
		}

		created, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			WalletID:  wallet.ID,
			Amount:    amount.StringFixed(2),
			Type:      string(TypeDeposit),
			Status:    string(StatusCompleted),
			Reference: ref,
			Metadata:  toNullRawMessage(metadata),
		})
		if err != nil {
			return err
		}

		balance := decimal.RequireFromString(wallet.Balance)
		_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      wallet.ID,
			Balance: balance.Add(amount).StringFixed(2),
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	s.publish(ctx, &created)
	return ToTransactionModel(&created), nil
}

// CreateWithdrawal records a PENDING withdrawal after a sufficiency check
// under the wallet row lock. The balance is not touched here: funds leave
// the wallet only in CompleteWithdrawal, after the provider confirms the
// payout. A crash between the two leaves an inspectable PENDING row.
func (s *TransactionService) CreateWithdrawal(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, metadata map[string]interface{}) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created db.Transaction
	err := s.runLedgerUnit(ctx, maxReferenceAttempts, func(q db.Querier) error {
		wallet, err := lockActiveWallet(ctx, q, walletID)
		if err != nil {
			return err
		}

		balance := decimal.RequireFromString(wallet.Balance)
		if balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		created, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			WalletID:  wallet.ID,
			Amount:    amount.StringFixed(2),
			Type:      string(TypeWithdrawal),
			Status:    string(StatusPending),
			Reference: GenerateReference(PrefixWithdrawal),
			Metadata:  toNullRawMessage(metadata),
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	return ToTransactionModel(&created), nil
}

// CompleteWithdrawal moves a withdrawal PENDING -> COMPLETED and deducts
// the amount, in one unit. Sufficiency is re-checked under the lock because
// other debits may have landed while the payout was in flight; on a
// shortfall the row stays PENDING for reconciliation.
func (s *TransactionService) CompleteWithdrawal(ctx context.Context, txn *Transaction) (*Transaction, error) {
	var updated db.Transaction
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		current, err := q.GetTransaction(ctx, txn.ID)
		if err == sql.ErrNoRows {
			return ErrTransactionNotFound
		} else if err != nil {
			return err
		}
		if TransactionType(current.Type) != TypeWithdrawal || TransactionStatus(current.Status) != StatusPending {
			return ErrInvalidStateTransition
		}

		wallet, err := lockActiveWallet(ctx, q, current.WalletID)
		if err != nil {
			return err
		}

		amount := decimal.RequireFromString(current.Amount)
		balance := decimal.RequireFromString(wallet.Balance)
		if balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		updated, err = q.UpdateTransactionStatus(ctx, db.UpdateTransactionStatusParams{
			ID:       current.ID,
			Status:   string(StatusCompleted),
			Metadata: current.Metadata,
		})
		if err == sql.ErrNoRows {
			// the row left PENDING between our read and the update
			return ErrInvalidStateTransition
		} else if err != nil {
			return err
		}

		_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      wallet.ID,
			Balance: balance.Sub(amount).StringFixed(2),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, &updated)
	return ToTransactionModel(&updated), nil
}

// FailWithdrawal moves a withdrawal PENDING -> FAILED and records the
// provider's reason. No reversal is needed: funds were never deducted.
func (s *TransactionService) FailWithdrawal(ctx context.Context, txn *Transaction, reason string) (*Transaction, error) {
	return s.finishWithdrawal(ctx, txn, StatusFailed, reason)
}

// ReverseWithdrawal moves a withdrawal PENDING -> REVERSED, for payouts the
// provider accepted and later unwound before settlement.
func (s *TransactionService) ReverseWithdrawal(ctx context.Context, txn *Transaction, reason string) (*Transaction, error) {
	return s.finishWithdrawal(ctx, txn, StatusReversed, reason)
}

func (s *TransactionService) finishWithdrawal(ctx context.Context, txn *Transaction, status TransactionStatus, reason string) (*Transaction, error) {
	var updated db.Transaction
	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		current, err := q.GetTransaction(ctx, txn.ID)
		if err == sql.ErrNoRows {
			return ErrTransactionNotFound
		} else if err != nil {
			return err
		}
		if TransactionType(current.Type) != TypeWithdrawal || TransactionStatus(current.Status) != StatusPending {
			return ErrInvalidStateTransition
		}

		updated, err = q.UpdateTransactionStatus(ctx, db.UpdateTransactionStatusParams{
			ID:     current.ID,
			Status: string(status),
			Metadata: mergeMetadata(current.Metadata, map[string]interface{}{
				"reason": reason,
			}),
		})
		if err == sql.ErrNoRows {
			return ErrInvalidStateTransition
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionModel(&updated), nil
}

// CreateTransfer debits the sender and credits the recipient as a pair of
// COMPLETED rows sharing a transfer_id, all in one unit. Wallet rows are
// locked in ascending ID order so transfers crossing in opposite directions
// between the same pair cannot deadlock.
func (s *TransactionService) CreateTransfer(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, metadata map[string]interface{}) (*Transaction, *Transaction, error) {
	if senderID == recipientID {
		return nil, nil, ErrSelfTransfer
	}
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	transferID := uuid.New()

	var outgoing, incoming db.Transaction
	err := s.runLedgerUnit(ctx, maxReferenceAttempts, func(q db.Querier) error {
		firstID, secondID := senderID, recipientID
		if recipientID.String() < senderID.String() {
			firstID, secondID = recipientID, senderID
		}

		first, err := lockActiveWallet(ctx, q, firstID)
		if err != nil {
			return err
		}
		second, err := lockActiveWallet(ctx, q, secondID)
		if err != nil {
			return err
		}

		sender, recipient := first, second
		if first.ID != senderID {
			sender, recipient = second, first
		}

		senderBalance := decimal.RequireFromString(sender.Balance)
		if senderBalance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		pairMeta := map[string]interface{}{"transfer_id": transferID.String()}
		for k, v := range metadata {
			pairMeta[k] = v
		}

		debitMeta := map[string]interface{}{"leg": "debit"}
		creditMeta := map[string]interface{}{"leg": "credit"}
		for k, v := range pairMeta {
			debitMeta[k] = v
			creditMeta[k] = v
		}

		outgoing, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			WalletID:          sender.ID,
			RecipientWalletID: uuid.NullUUID{UUID: recipient.ID, Valid: true},
			Amount:            amount.StringFixed(2),
			Type:              string(TypeTransfer),
			Status:            string(StatusCompleted),
			Reference:         GenerateReference(PrefixTransfer),
			Metadata:          toNullRawMessage(debitMeta),
		})
		if err != nil {
			return err
		}

		incoming, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			WalletID:          recipient.ID,
			RecipientWalletID: uuid.NullUUID{UUID: recipient.ID, Valid: true},
			Amount:            amount.StringFixed(2),
			Type:              string(TypeTransfer),
			Status:            string(StatusCompleted),
			Reference:         GenerateReference(PrefixTransfer),
			Metadata:          toNullRawMessage(creditMeta),
		})
		if err != nil {
			return err
		}

		_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      sender.ID,
			Balance: senderBalance.Sub(amount).StringFixed(2),
		})
		if err != nil {
			return err
		}

		recipientBalance := decimal.RequireFromString(recipient.Balance)
		_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      recipient.ID,
			Balance: recipientBalance.Add(amount).StringFixed(2),
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, nil, ErrDuplicateReference
		}
		return nil, nil, err
	}

	s.publish(ctx, &outgoing)
	s.publish(ctx, &incoming)
	return ToTransactionModel(&outgoing), ToTransactionModel(&incoming), nil
}

// CreateVASTransaction records a completed airtime/data purchase and
// deducts the amount in one unit. Callers invoke this only after the
// provider reports success; sufficiency is still re-checked under the lock.
func (s *TransactionService) CreateVASTransaction(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal, serviceType TransactionType, metadata map[string]interface{}) (*Transaction, error) {
	if serviceType != TypeAirtime && serviceType != TypeData {
		return nil, ErrInvalidServiceType
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created db.Transaction
	err := s.runLedgerUnit(ctx, maxReferenceAttempts, func(q db.Querier) error {
		wallet, err := lockActiveWallet(ctx, q, walletID)
		if err != nil {
			return err
		}

		balance := decimal.RequireFromString(wallet.Balance)
		if balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		created, err = q.CreateTransaction(ctx, db.CreateTransactionParams{
			WalletID:  wallet.ID,
			Amount:    amount.StringFixed(2),
			Type:      string(serviceType),
			Status:    string(StatusCompleted),
			Reference: GenerateReference(vasPrefix(serviceType)),
			Metadata:  toNullRawMessage(metadata),
		})
		if err != nil {
			return err
		}

		_, err = q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      wallet.ID,
			Balance: balance.Sub(amount).StringFixed(2),
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, ErrDuplicateReference
		}
		return nil, err
	}

	s.publish(ctx, &created)
	return ToTransactionModel(&created), nil
}

func (s *TransactionService) GetByReference(ctx context.Context, reference string) (*Transaction, error) {
	txn, err := s.store.GetTransactionByReference(ctx, reference)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	} else if err != nil {
		return nil, err
	}
	return ToTransactionModel(&txn), nil
}

func (s *TransactionService) ListForWallet(ctx context.Context, walletID uuid.UUID, limit, offset int32) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	txns, err := s.store.ListWalletTransactions(ctx, db.ListWalletTransactionsParams{
		WalletID: walletID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}
	models := make([]*Transaction, 0, len(txns))
	for i := range txns {
		models = append(models, ToTransactionModel(&txns[i]))
	}
	return models, nil
}

// publish emits a completed-transaction event; failures are logged and
// never surfaced, the ledger write has already committed.
func (s *TransactionService) publish(ctx context.Context, txn *db.Transaction) {
	if s.publisher == nil {
		return
	}
	event := events.TransactionEvent{
		Reference: txn.Reference,
		WalletID:  txn.WalletID.String(),
		Type:      txn.Type,
		Status:    txn.Status,
		Amount:    txn.Amount,
		CreatedAt: txn.CreatedAt,
	}
	if err := s.publisher.PublishTransaction(ctx, event); err != nil {
		s.logger.Error("failed to publish transaction event", err)
	}
}
