package wallet

import "fmt"

var (
	ErrWalletNotFound        = fmt.Errorf("wallet not found")
	ErrWalletNotPossible     = fmt.Errorf("could not create wallet")
	ErrWalletExists          = fmt.Errorf("user already has a wallet")
	ErrWalletHasTransactions = fmt.Errorf("wallet has transaction history and cannot be deleted")
)
