package apistrings

const (
	/// Core Functionality Error
	ServerError = "a server error occurred, please try again later"

	/// Wallet Related Strings
	UserNoWallet       = "user does not have a wallet created"
	WalletNotFound     = "wallet does not exist"
	WalletInactive     = "wallet is not active"
	DuplicateWallet    = "user already has a wallet"
	WalletHasHistory   = "wallet has transaction history and cannot be removed"
	InvalidWalletInput = "check 'user_id' or 'email' keys, invalid request"

	/// Transaction Related Strings
	InvalidTransactionInput = "check 'wallet_id' or 'amount' keys, invalid request"
	InvalidAmount           = "amount must be greater than zero"
	InsufficientFunds       = "insufficient wallet balance"
	SelfTransfer            = "sender and recipient wallets must differ"
	DuplicateReference      = "transaction reference already exists"
	WithdrawalFailed        = "withdrawal was declined by the payment provider"
	TransactionNotFound     = "transaction does not exist"

	/// Webhook Related Strings
	InvalidSignature = "invalid webhook signature"
	InvalidWebhook   = "invalid webhook payload"

	/// VAS Related Strings
	InvalidVASInput = "check 'phone', 'network' or 'amount' keys, invalid request"
	PlanNotFound    = "data plan does not exist for network"
)
