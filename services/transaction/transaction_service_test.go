package transaction

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/NexaPay/NexaPay-Backend/db/memstore"
	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*TransactionService, *memstore.MemStore) {
	t.Helper()
	store := memstore.NewStore()
	return NewTransactionService(store, nil, logging.NewTestLogger()), store
}

func createTestWallet(t *testing.T, store *memstore.MemStore, userID int64, balance string) db.Wallet {
	t.Helper()
	w, err := store.CreateWallet(context.Background(), db.CreateWalletParams{
		UserID:   userID,
		WalletID: fmt.Sprintf("NEXA%010d", userID),
		Balance:  balance,
	})
	require.NoError(t, err)
	return w
}

func walletBalance(t *testing.T, store *memstore.MemStore, id uuid.UUID) string {
	t.Helper()
	w, err := store.GetWalletForUpdate(context.Background(), id)
	require.NoError(t, err)
	return w.Balance
}

func TestCreateDepositCreditsWallet(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	txn, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(5000), "DEP-ABC123", nil)
	require.NoError(t, err)

	assert.Equal(t, "DEP-ABC123", txn.Reference)
	assert.Equal(t, TypeDeposit, txn.Type)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "5000.00", walletBalance(t, store, w.ID))
}

func TestCreateDepositGeneratesReference(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	txn, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(100), "", nil)
	require.NoError(t, err)
	assert.Contains(t, txn.Reference, PrefixDeposit+"-")
}

func TestCreateDepositDuplicateReference(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	_, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(5000), "DEP-ABC123", nil)
	require.NoError(t, err)

	// a webhook replay must not credit twice
	_, err = svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(5000), "DEP-ABC123", nil)
	assert.ErrorIs(t, err, ErrDuplicateReference)
	assert.Equal(t, "5000.00", walletBalance(t, store, w.ID))
}

func TestCreateDepositRejectsNonPositiveAmounts(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	_, err := svc.CreateDeposit(context.Background(), w.ID, decimal.Zero, "", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(-5), "", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateDepositUnknownWallet(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateDeposit(context.Background(), uuid.New(), decimal.NewFromInt(10), "", nil)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestCreateTransferMovesFundsAtomically(t *testing.T) {
	svc, store := newTestService(t)
	sender := createTestWallet(t, store, 1, "5000.00")
	recipient := createTestWallet(t, store, 2, "0.00")

	outgoing, incoming, err := svc.CreateTransfer(context.Background(), sender.ID, recipient.ID, decimal.NewFromInt(500), nil)
	require.NoError(t, err)

	assert.Equal(t, "4500.00", walletBalance(t, store, sender.ID))
	assert.Equal(t, "500.00", walletBalance(t, store, recipient.ID))

	assert.Equal(t, sender.ID, outgoing.WalletID)
	assert.Equal(t, recipient.ID, incoming.WalletID)
	assert.Equal(t, StatusCompleted, outgoing.Status)
	assert.Equal(t, StatusCompleted, incoming.Status)
	assert.NotEqual(t, outgoing.Reference, incoming.Reference)

	// both rows carry the same correlation id
	require.NotNil(t, outgoing.Metadata["transfer_id"])
	assert.Equal(t, outgoing.Metadata["transfer_id"], incoming.Metadata["transfer_id"])
	assert.Equal(t, "debit", outgoing.Metadata["leg"])
	assert.Equal(t, "credit", incoming.Metadata["leg"])
}

func TestCreateTransferInsufficientFundsLeavesNothingBehind(t *testing.T) {
	svc, store := newTestService(t)
	sender := createTestWallet(t, store, 1, "100.00")
	recipient := createTestWallet(t, store, 2, "0.00")

	_, _, err := svc.CreateTransfer(context.Background(), sender.ID, recipient.ID, decimal.NewFromInt(500), nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, "100.00", walletBalance(t, store, sender.ID))
	assert.Equal(t, "0.00", walletBalance(t, store, recipient.ID))

	count, err := store.CountWalletTransactions(context.Background(), sender.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateTransferRejectsSelf(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "100.00")

	_, _, err := svc.CreateTransfer(context.Background(), w.ID, w.ID, decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrSelfTransfer)
}

func TestWithdrawalLifecycle(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "4500.00")

	pending, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(1000), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, pending.Status)
	assert.Contains(t, pending.Reference, PrefixWithdrawal+"-")

	// no funds move until the payout is confirmed
	assert.Equal(t, "4500.00", walletBalance(t, store, w.ID))

	completed, err := svc.CompleteWithdrawal(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, "3500.00", walletBalance(t, store, w.ID))

	// terminal rows admit no further transitions
	_, err = svc.FailWithdrawal(context.Background(), pending, "late decline")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = svc.CompleteWithdrawal(context.Background(), pending)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCreateWithdrawalInsufficientFunds(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "100.00")

	_, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(500), nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	count, err := store.CountWalletTransactions(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFailWithdrawalKeepsBalance(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "1000.00")

	pending, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(800), nil)
	require.NoError(t, err)

	failed, err := svc.FailWithdrawal(context.Background(), pending, "provider declined")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "provider declined", failed.Metadata["reason"])
	assert.Equal(t, "1000.00", walletBalance(t, store, w.ID))
}

func TestReverseWithdrawal(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "1000.00")

	pending, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(800), nil)
	require.NoError(t, err)

	reversed, err := svc.ReverseWithdrawal(context.Background(), pending, "payout unwound")
	require.NoError(t, err)
	assert.Equal(t, StatusReversed, reversed.Status)
	assert.Equal(t, "1000.00", walletBalance(t, store, w.ID))

	_, err = svc.CompleteWithdrawal(context.Background(), pending)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestCompleteWithdrawalRechecksSufficiency(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "4500.00")

	// two pending payouts against the same balance
	first, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(4000), nil)
	require.NoError(t, err)
	second, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(4000), nil)
	require.NoError(t, err)

	_, err = svc.CompleteWithdrawal(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "500.00", walletBalance(t, store, w.ID))

	// the second must not overdraw, and stays pending for reconciliation
	_, err = svc.CompleteWithdrawal(context.Background(), second)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "500.00", walletBalance(t, store, w.ID))

	current, err := svc.GetByReference(context.Background(), second.Reference)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, current.Status)
}

// staleStatusStore serves a fixed stale snapshot for one transaction ID,
// the way a non-locking read can under read committed: a finalizer that
// already lost the race still sees the row as PENDING going in.
type staleStatusStore struct {
	*memstore.MemStore
	stale db.Transaction
}

func (s *staleStatusStore) ExecTx(ctx context.Context, fq func(q db.Querier) error) error {
	return s.MemStore.ExecTx(ctx, func(q db.Querier) error {
		return fq(&staleStatusQuerier{Querier: q, stale: s.stale})
	})
}

type staleStatusQuerier struct {
	db.Querier
	stale db.Transaction
}

func (q *staleStatusQuerier) GetTransaction(_ context.Context, id uuid.UUID) (db.Transaction, error) {
	if id == q.stale.ID {
		return q.stale, nil
	}
	return q.Querier.GetTransaction(context.Background(), id)
}

func TestCompleteWithdrawalAppliesOnceUnderStaleReads(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "1000.00")

	pending, err := svc.CreateWithdrawal(context.Background(), w.ID, decimal.NewFromInt(400), nil)
	require.NoError(t, err)

	staleRow, err := store.GetTransaction(context.Background(), pending.ID)
	require.NoError(t, err)

	_, err = svc.CompleteWithdrawal(context.Background(), pending)
	require.NoError(t, err)
	require.Equal(t, "600.00", walletBalance(t, store, w.ID))

	// a second finalizer whose status read predates the first commit must
	// not deduct again; the balance is still sufficient, so only the
	// status guard stands in its way
	staleSvc := NewTransactionService(&staleStatusStore{MemStore: store, stale: staleRow}, nil, logging.NewTestLogger())
	_, err = staleSvc.CompleteWithdrawal(context.Background(), pending)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, "600.00", walletBalance(t, store, w.ID))

	// nor may a stale fail flip the settled row and strand the deduction
	_, err = staleSvc.FailWithdrawal(context.Background(), pending, "late decline")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	current, err := svc.GetByReference(context.Background(), pending.Reference)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, current.Status)
}

func TestConcurrentWithdrawalsSingleWinner(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "1000.00")

	const workers = 8
	amount := decimal.NewFromInt(800)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pending, err := svc.CreateWithdrawal(context.Background(), w.ID, amount, nil)
			if err != nil {
				results <- err
				return
			}
			_, err = svc.CompleteWithdrawal(context.Background(), pending)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, "200.00", walletBalance(t, store, w.ID))
}

func TestCreateVASTransaction(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "2000.00")

	txn, err := svc.CreateVASTransaction(context.Background(), w.ID, decimal.NewFromInt(500), TypeAirtime, map[string]interface{}{
		"phone": "08030000000",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeAirtime, txn.Type)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.Contains(t, txn.Reference, PrefixAirtime+"-")
	assert.Equal(t, "1500.00", walletBalance(t, store, w.ID))

	_, err = svc.CreateVASTransaction(context.Background(), w.ID, decimal.NewFromInt(500), TypeDeposit, nil)
	assert.ErrorIs(t, err, ErrInvalidServiceType)

	_, err = svc.CreateVASTransaction(context.Background(), w.ID, decimal.NewFromInt(5000), TypeData, nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestListForWalletNewestFirst(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	for i := 1; i <= 5; i++ {
		_, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(int64(i)), fmt.Sprintf("DEP-SEQ%05d", i), nil)
		require.NoError(t, err)
	}

	txns, err := svc.ListForWallet(context.Background(), w.ID, 3, 0)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "DEP-SEQ00005", txns[0].Reference)
	assert.Equal(t, "DEP-SEQ00004", txns[1].Reference)

	rest, err := svc.ListForWallet(context.Background(), w.ID, 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "DEP-SEQ00002", rest[0].Reference)
}

func TestListForWalletClampsNegativeOffset(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	_, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(10), "DEP-CLAMP001", nil)
	require.NoError(t, err)

	txns, err := svc.ListForWallet(context.Background(), w.ID, 10, -5)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestGetByReference(t *testing.T) {
	svc, store := newTestService(t)
	w := createTestWallet(t, store, 1, "0.00")

	_, err := svc.CreateDeposit(context.Background(), w.ID, decimal.NewFromInt(50), "DEP-FINDME1", nil)
	require.NoError(t, err)

	found, err := svc.GetByReference(context.Background(), "DEP-FINDME1")
	require.NoError(t, err)
	assert.Equal(t, "DEP-FINDME1", found.Reference)

	_, err = svc.GetByReference(context.Background(), "DEP-MISSING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

// TestBalanceInvariantUnderRandomOperations drives a random mix of
// operations and checks that every wallet balance matches the sum implied
// by its COMPLETED transaction rows.
func TestBalanceInvariantUnderRandomOperations(t *testing.T) {
	svc, store := newTestService(t)
	rng := rand.New(rand.NewSource(42))

	wallets := []db.Wallet{
		createTestWallet(t, store, 1, "1000.00"),
		createTestWallet(t, store, 2, "1000.00"),
		createTestWallet(t, store, 3, "1000.00"),
	}
	expected := map[uuid.UUID]decimal.Decimal{}
	for _, w := range wallets {
		expected[w.ID] = decimal.RequireFromString(w.Balance)
	}

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		w := wallets[rng.Intn(len(wallets))]
		amount := decimal.NewFromInt(int64(rng.Intn(300) + 1))

		switch rng.Intn(4) {
		case 0:
			if _, err := svc.CreateDeposit(ctx, w.ID, amount, "", nil); err == nil {
				expected[w.ID] = expected[w.ID].Add(amount)
			}
		case 1:
			pending, err := svc.CreateWithdrawal(ctx, w.ID, amount, nil)
			if err != nil {
				continue
			}
			if rng.Intn(2) == 0 {
				if _, err := svc.CompleteWithdrawal(ctx, pending); err == nil {
					expected[w.ID] = expected[w.ID].Sub(amount)
				}
			} else {
				_, err := svc.FailWithdrawal(ctx, pending, "synthetic decline")
				require.NoError(t, err)
			}
		case 2:
			other := wallets[rng.Intn(len(wallets))]
			if _, _, err := svc.CreateTransfer(ctx, w.ID, other.ID, amount, nil); err == nil {
				expected[w.ID] = expected[w.ID].Sub(amount)
				expected[other.ID] = expected[other.ID].Add(amount)
			}
		case 3:
			serviceType := TypeAirtime
			if rng.Intn(2) == 0 {
				serviceType = TypeData
			}
			if _, err := svc.CreateVASTransaction(ctx, w.ID, amount, serviceType, nil); err == nil {
				expected[w.ID] = expected[w.ID].Sub(amount)
			}
		}
	}

	for _, w := range wallets {
		balance := decimal.RequireFromString(walletBalance(t, store, w.ID))
		assert.True(t, balance.Equal(expected[w.ID]),
			"wallet %s: balance %s, expected %s", w.WalletID, balance, expected[w.ID])
		assert.False(t, balance.IsNegative(), "wallet %s overdrawn", w.WalletID)
	}
}
