package api

import (
	"net/http"
	"strconv"

	"github.com/NexaPay/NexaPay-Backend/api/apistrings"
	models "github.com/NexaPay/NexaPay-Backend/api/models"
	basemodels "github.com/NexaPay/NexaPay-Backend/models"
	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
	"github.com/NexaPay/NexaPay-Backend/services/transaction"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	server             *Server
	walletService      *wallet.WalletService
	transactionService *transaction.TransactionService
}

func (t Transaction) router(server *Server) {
	t.server = server
	t.walletService = wallet.NewWalletService(server.store, server.virtualAccounts(), server.logger)
	t.transactionService = transaction.NewTransactionService(server.store, server.publisher, server.logger)

	serverGroupV1 := server.router.Group("/api/v1")
	serverGroupV1.GET("wallets/:wallet_id/transactions", t.getTransactions)
	serverGroupV1.POST("wallets/withdraw", t.withdraw)
	serverGroupV1.POST("wallets/transfer", t.transfer)
	serverGroupV1.GET("transactions/:reference", t.getTransaction)
}

func (t *Transaction) getTransactions(ctx *gin.Context) {
	found, err := t.walletService.GetWalletByWalletID(ctx, ctx.Param("wallet_id"))
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "20"), 10, 32)
	offset, _ := strconv.ParseInt(ctx.DefaultQuery("offset", "0"), 10, 32)

	txns, err := t.transactionService.ListForWallet(ctx, found.ID, int32(limit), int32(offset))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Transactions Fetched Successfully", models.ToTransactionCollectionResponse(txns)))
}

func (t *Transaction) getTransaction(ctx *gin.Context) {
	txn, err := t.transactionService.GetByReference(ctx, ctx.Param("reference"))
	if err == transaction.ErrTransactionNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.TransactionNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Transaction Fetched Successfully", models.ToTransactionResponse(txn)))
}

// withdraw runs the two-phase payout: a PENDING row reserves nothing, the
// provider call happens outside any ledger unit, and the outcome drives the
// complete or fail transition.
func (t *Transaction) withdraw(ctx *gin.Context) {
	request := struct {
		WalletID      string `json:"wallet_id" binding:"required"`
		Amount        string `json:"amount" binding:"required"`
		BankCode      string `json:"bank_code" binding:"required"`
		AccountNumber string `json:"account_number" binding:"required"`
		AccountName   string `json:"account_name" binding:"required"`
		Narration     string `json:"narration"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTransactionInput))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	found, err := t.walletService.GetWalletByWalletID(ctx, request.WalletID)
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	pending, err := t.transactionService.CreateWithdrawal(ctx, found.ID, amount, map[string]interface{}{
		"bank_code":      request.BankCode,
		"account_number": request.AccountNumber,
		"account_name":   request.AccountName,
	})
	if err != nil {
		t.respondTransactionError(ctx, err)
		return
	}

	result := t.server.gateway.ProcessWithdrawal(amount, payscribe.BankDetails{
		BankCode:      request.BankCode,
		AccountNumber: request.AccountNumber,
		AccountName:   request.AccountName,
	}, pending.Reference, request.Narration)

	if !result.Success {
		failed, failErr := t.transactionService.FailWithdrawal(ctx, pending, result.Error)
		if failErr != nil {
			t.server.logger.Error("could not mark withdrawal failed", failErr)
			ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
			return
		}
		resp := basemodels.NewError(apistrings.WithdrawalFailed)
		resp.Errors = []string{result.Error, "reference: " + failed.Reference}
		ctx.JSON(http.StatusBadGateway, resp)
		return
	}

	completed, err := t.transactionService.CompleteWithdrawal(ctx, pending)
	if err != nil {
		// the payout went out but the ledger refused the transition; the
		// PENDING row stays behind for reconciliation
		t.server.logger.Error("could not complete withdrawal", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Withdrawal Completed Successfully", models.ToTransactionResponse(completed)))
}

func (t *Transaction) transfer(ctx *gin.Context) {
	request := struct {
		SenderWalletID    string `json:"sender_wallet_id" binding:"required"`
		RecipientWalletID string `json:"recipient_wallet_id" binding:"required"`
		Amount            string `json:"amount" binding:"required"`
		Narration         string `json:"narration"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidTransactionInput))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	sender, err := t.walletService.GetWalletByWalletID(ctx, request.SenderWalletID)
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	recipient, err := t.walletService.GetWalletByWalletID(ctx, request.RecipientWalletID)
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	metadata := map[string]interface{}{}
	if request.Narration != "" {
		metadata["narration"] = request.Narration
	}

	outgoing, incoming, err := t.transactionService.CreateTransfer(ctx, sender.ID, recipient.ID, amount, metadata)
	if err != nil {
		t.respondTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Transfer Completed Successfully", models.TransferResponse{
		Outgoing: models.ToTransactionResponse(outgoing),
		Incoming: models.ToTransactionResponse(incoming),
	}))
}

func (t *Transaction) respondTransactionError(ctx *gin.Context, err error) {
	switch err {
	case transaction.ErrInvalidAmount:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
	case transaction.ErrInsufficientFunds:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InsufficientFunds))
	case transaction.ErrSelfTransfer:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.SelfTransfer))
	case transaction.ErrWalletNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
	case transaction.ErrWalletInactive:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.WalletInactive))
	case transaction.ErrDuplicateReference:
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DuplicateReference))
	default:
		t.server.logger.Error("transaction operation failed", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
	}
}
