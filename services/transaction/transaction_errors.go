package transaction

import "fmt"

var (
	ErrInvalidAmount          = fmt.Errorf("amount must be greater than zero")
	ErrInsufficientFunds      = fmt.Errorf("insufficient funds")
	ErrSelfTransfer           = fmt.Errorf("cannot transfer to the same wallet")
	ErrWalletNotFound         = fmt.Errorf("wallet not found")
	ErrWalletInactive         = fmt.Errorf("wallet is not active")
	ErrDuplicateReference     = fmt.Errorf("transaction reference already used")
	ErrInvalidStateTransition = fmt.Errorf("transaction status does not permit this transition")
	ErrTransactionNotFound    = fmt.Errorf("transaction not found")
	ErrInvalidServiceType     = fmt.Errorf("unsupported VAS service type")
)
