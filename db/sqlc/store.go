package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Store gives the service layer single queries plus ExecTx for multi-row
// atomic units. Both rows of a transfer, or a transaction insert plus its
// balance adjustment, must go through one ExecTx call.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fq func(q Querier) error) error
}

type SQLStore struct {
	*Queries
	DB *sql.DB
}

func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		DB:      db,
		Queries: New(db),
	}
}

func (s *SQLStore) ExecTx(ctx context.Context, fq func(q Querier) error) error {
	// initialize transaction
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := New(tx)
	err = fq(q)

	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil && txErr != sql.ErrTxDone {
			return fmt.Errorf("encountered rollback error: %v", txErr)
		}
		return err
	}

	return tx.Commit()
}
