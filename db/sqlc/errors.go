package db

import (
	"errors"

	"github.com/lib/pq"
)

const (
	DuplicateEntry      pq.ErrorCode = "23505"
	ForeignKeyViolation pq.ErrorCode = "23503"
	EntryTooLong        pq.ErrorCode = "22001"
)

// IsDuplicateEntry reports whether err is a postgres unique-constraint
// violation, e.g. an insert that reuses a transaction reference.
func IsDuplicateEntry(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == DuplicateEntry
	}
	return false
}

// IsForeignKeyViolation reports whether err is a postgres FK violation,
// e.g. deleting a wallet that still has transaction history.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == ForeignKeyViolation
	}
	return false
}
