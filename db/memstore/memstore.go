// Package memstore is an in-memory implementation of the db store contract.
// It backs service and handler tests that exercise ledger semantics without
// a postgres instance. ExecTx runs each unit under one mutex against a
// snapshot, so units are serializable and roll back completely on error,
// matching the row-locked database transactions of the SQL store.
package memstore

import (
	"context"
	"database/sql"
	"sync"
	"time"

	db "github.com/NexaPay/NexaPay-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type MemStore struct {
	mu sync.Mutex
	st *state
}

type state struct {
	wallets      map[uuid.UUID]db.Wallet
	transactions map[uuid.UUID]db.Transaction
	byReference  map[string]uuid.UUID
	order        []uuid.UUID
}

func NewStore() *MemStore {
	return &MemStore{
		st: &state{
			wallets:      make(map[uuid.UUID]db.Wallet),
			transactions: make(map[uuid.UUID]db.Transaction),
			byReference:  make(map[string]uuid.UUID),
		},
	}
}

func (s *state) clone() *state {
	c := &state{
		wallets:      make(map[uuid.UUID]db.Wallet, len(s.wallets)),
		transactions: make(map[uuid.UUID]db.Transaction, len(s.transactions)),
		byReference:  make(map[string]uuid.UUID, len(s.byReference)),
		order:        make([]uuid.UUID, len(s.order)),
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.byReference {
		c.byReference[k] = v
	}
	copy(c.order, s.order)
	return c
}

func (m *MemStore) ExecTx(ctx context.Context, fq func(q db.Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fq(&txQuerier{st: m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// txQuerier runs queries against the live state while the ExecTx mutex is
// held. MemStore's own methods take the lock per call.
type txQuerier struct {
	st *state
}

func dup(constraint string) error {
	return &pq.Error{Code: db.DuplicateEntry, Constraint: constraint}
}

func (s *state) createWallet(arg db.CreateWalletParams) (db.Wallet, error) {
	for _, w := range s.wallets {
		if w.UserID == arg.UserID {
			return db.Wallet{}, dup("wallets_user_id_key")
		}
		if w.WalletID == arg.WalletID {
			return db.Wallet{}, dup("wallets_wallet_id_key")
		}
	}
	balance := arg.Balance
	if balance == "" {
		balance = "0.00"
	}
	now := time.Now()
	w := db.Wallet{
		ID:        uuid.New(),
		UserID:    arg.UserID,
		WalletID:  arg.WalletID,
		Balance:   balance,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.wallets[w.ID] = w
	return w, nil
}

func (s *state) getWallet(id uuid.UUID) (db.Wallet, error) {
	w, ok := s.wallets[id]
	if !ok {
		return db.Wallet{}, sql.ErrNoRows
	}
	return w, nil
}

func (s *state) getWalletByUserID(userID int64) (db.Wallet, error) {
	for _, w := range s.wallets {
		if w.UserID == userID {
			return w, nil
		}
	}
	return db.Wallet{}, sql.ErrNoRows
}

func (s *state) getWalletByWalletID(walletID string) (db.Wallet, error) {
	for _, w := range s.wallets {
		if w.WalletID == walletID {
			return w, nil
		}
	}
	return db.Wallet{}, sql.ErrNoRows
}

func (s *state) updateWalletBalance(arg db.UpdateWalletBalanceParams) (db.Wallet, error) {
	w, ok := s.wallets[arg.ID]
	if !ok {
		return db.Wallet{}, sql.ErrNoRows
	}
	w.Balance = arg.Balance
	w.UpdatedAt = time.Now()
	s.wallets[arg.ID] = w
	return w, nil
}

func (s *state) updateWalletVirtualAccount(arg db.UpdateWalletVirtualAccountParams) (db.Wallet, error) {
	w, ok := s.wallets[arg.ID]
	if !ok {
		return db.Wallet{}, sql.ErrNoRows
	}
	w.VirtualAccountNumber = arg.VirtualAccountNumber
	w.VirtualBankName = arg.VirtualBankName
	w.VirtualAccountReference = arg.VirtualAccountReference
	w.UpdatedAt = time.Now()
	s.wallets[arg.ID] = w
	return w, nil
}

func (s *state) deleteWallet(id uuid.UUID) error {
	if _, ok := s.wallets[id]; !ok {
		return sql.ErrNoRows
	}
	for _, t := range s.transactions {
		if t.WalletID == id || (t.RecipientWalletID.Valid && t.RecipientWalletID.UUID == id) {
			return &pq.Error{Code: db.ForeignKeyViolation, Constraint: "transactions_wallet_id_fkey"}
		}
	}
	delete(s.wallets, id)
	return nil
}

func (s *state) createTransaction(arg db.CreateTransactionParams) (db.Transaction, error) {
	if _, exists := s.byReference[arg.Reference]; exists {
		return db.Transaction{}, dup("transactions_reference_idx")
	}
	now := time.Now()
	t := db.Transaction{
		ID:                uuid.New(),
		WalletID:          arg.WalletID,
		RecipientWalletID: arg.RecipientWalletID,
		Amount:            arg.Amount,
		Type:              arg.Type,
		Status:            arg.Status,
		Reference:         arg.Reference,
		Narration:         arg.Narration,
		Metadata:          arg.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.transactions[t.ID] = t
	s.byReference[t.Reference] = t.ID
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *state) getTransaction(id uuid.UUID) (db.Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return db.Transaction{}, sql.ErrNoRows
	}
	return t, nil
}

func (s *state) getTransactionByReference(reference string) (db.Transaction, error) {
	id, ok := s.byReference[reference]
	if !ok {
		return db.Transaction{}, sql.ErrNoRows
	}
	return s.transactions[id], nil
}

func (s *state) updateTransactionStatus(arg db.UpdateTransactionStatusParams) (db.Transaction, error) {
	t, ok := s.transactions[arg.ID]
	// only PENDING rows transition, mirroring the SQL WHERE guard
	if !ok || t.Status != "PENDING" {
		return db.Transaction{}, sql.ErrNoRows
	}
	t.Status = arg.Status
	t.Metadata = arg.Metadata
	t.UpdatedAt = time.Now()
	s.transactions[arg.ID] = t
	return t, nil
}

func (s *state) listWalletTransactions(arg db.ListWalletTransactionsParams) ([]db.Transaction, error) {
	items := []db.Transaction{}
	// order holds insertion order; newest first like the SQL query
	for i := len(s.order) - 1; i >= 0; i-- {
		t := s.transactions[s.order[i]]
		if t.WalletID != arg.WalletID {
			continue
		}
		if arg.Offset > 0 {
			arg.Offset--
			continue
		}
		items = append(items, t)
		if arg.Limit > 0 && int32(len(items)) >= arg.Limit {
			break
		}
	}
	return items, nil
}

func (s *state) countWalletTransactions(walletID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range s.transactions {
		if t.WalletID == walletID || (t.RecipientWalletID.Valid && t.RecipientWalletID.UUID == walletID) {
			count++
		}
	}
	return count, nil
}

func (q *txQuerier) CreateWallet(_ context.Context, arg db.CreateWalletParams) (db.Wallet, error) {
	return q.st.createWallet(arg)
}

func (q *txQuerier) GetWalletByUserID(_ context.Context, userID int64) (db.Wallet, error) {
	return q.st.getWalletByUserID(userID)
}

func (q *txQuerier) GetWalletByWalletID(_ context.Context, walletID string) (db.Wallet, error) {
	return q.st.getWalletByWalletID(walletID)
}

func (q *txQuerier) GetWalletForUpdate(_ context.Context, id uuid.UUID) (db.Wallet, error) {
	return q.st.getWallet(id)
}

func (q *txQuerier) UpdateWalletBalance(_ context.Context, arg db.UpdateWalletBalanceParams) (db.Wallet, error) {
	return q.st.updateWalletBalance(arg)
}

func (q *txQuerier) UpdateWalletVirtualAccount(_ context.Context, arg db.UpdateWalletVirtualAccountParams) (db.Wallet, error) {
	return q.st.updateWalletVirtualAccount(arg)
}

func (q *txQuerier) DeleteWallet(_ context.Context, id uuid.UUID) error {
	return q.st.deleteWallet(id)
}

func (q *txQuerier) CreateTransaction(_ context.Context, arg db.CreateTransactionParams) (db.Transaction, error) {
	return q.st.createTransaction(arg)
}

func (q *txQuerier) GetTransaction(_ context.Context, id uuid.UUID) (db.Transaction, error) {
	return q.st.getTransaction(id)
}

func (q *txQuerier) GetTransactionByReference(_ context.Context, reference string) (db.Transaction, error) {
	return q.st.getTransactionByReference(reference)
}

func (q *txQuerier) UpdateTransactionStatus(_ context.Context, arg db.UpdateTransactionStatusParams) (db.Transaction, error) {
	return q.st.updateTransactionStatus(arg)
}

func (q *txQuerier) ListWalletTransactions(_ context.Context, arg db.ListWalletTransactionsParams) ([]db.Transaction, error) {
	return q.st.listWalletTransactions(arg)
}

func (q *txQuerier) CountWalletTransactions(_ context.Context, walletID uuid.UUID) (int64, error) {
	return q.st.countWalletTransactions(walletID)
}

func (m *MemStore) CreateWallet(ctx context.Context, arg db.CreateWalletParams) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createWallet(arg)
}

func (m *MemStore) GetWalletByUserID(ctx context.Context, userID int64) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getWalletByUserID(userID)
}

func (m *MemStore) GetWalletByWalletID(ctx context.Context, walletID string) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getWalletByWalletID(walletID)
}

func (m *MemStore) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getWallet(id)
}

func (m *MemStore) UpdateWalletBalance(ctx context.Context, arg db.UpdateWalletBalanceParams) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateWalletBalance(arg)
}

func (m *MemStore) UpdateWalletVirtualAccount(ctx context.Context, arg db.UpdateWalletVirtualAccountParams) (db.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateWalletVirtualAccount(arg)
}

func (m *MemStore) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.deleteWallet(id)
}

func (m *MemStore) CreateTransaction(ctx context.Context, arg db.CreateTransactionParams) (db.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createTransaction(arg)
}

func (m *MemStore) GetTransaction(ctx context.Context, id uuid.UUID) (db.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getTransaction(id)
}

func (m *MemStore) GetTransactionByReference(ctx context.Context, reference string) (db.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getTransactionByReference(reference)
}

func (m *MemStore) UpdateTransactionStatus(ctx context.Context, arg db.UpdateTransactionStatusParams) (db.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateTransactionStatus(arg)
}

func (m *MemStore) ListWalletTransactions(ctx context.Context, arg db.ListWalletTransactionsParams) ([]db.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.listWalletTransactions(arg)
}

func (m *MemStore) CountWalletTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.countWalletTransactions(walletID)
}

var _ db.Store = (*MemStore)(nil)
