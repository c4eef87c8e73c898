package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/NexaPay/NexaPay-Backend/api/apistrings"
	models "github.com/NexaPay/NexaPay-Backend/api/models"
	basemodels "github.com/NexaPay/NexaPay-Backend/models"
	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
	"github.com/NexaPay/NexaPay-Backend/services/transaction"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

type Webhook struct {
	server             *Server
	walletService      *wallet.WalletService
	transactionService *transaction.TransactionService
}

func (w Webhook) router(server *Server) {
	w.server = server
	w.walletService = wallet.NewWalletService(server.store, server.virtualAccounts(), server.logger)
	w.transactionService = transaction.NewTransactionService(server.store, server.publisher, server.logger)

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.POST("deposit/webhook", w.depositWebhook)
}

// depositWebhook credits a wallet from a Payscribe funding notification.
// The signature check runs on the raw body before anything is decoded, and
// a failed check ends the request with no store access. Replays are cheap
// to reject from the recent-reference cache; the unique index on reference
// remains the authority either way.
func (w *Webhook) depositWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWebhook))
		return
	}

	signature := ctx.GetHeader(payscribe.SignatureHeader)
	if !w.server.verifier.Verify(payload, signature) {
		w.server.logger.Error("webhook signature verification failed", ctx.ClientIP())
		ctx.JSON(http.StatusForbidden, basemodels.NewError(apistrings.InvalidSignature))
		return
	}

	var hook payscribe.DepositWebhook
	if err := json.Unmarshal(payload, &hook); err != nil || hook.Reference == "" || hook.WalletID == "" {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWebhook))
		return
	}

	amount, err := decimal.NewFromString(hook.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWebhook))
		return
	}

	if _, seen := w.server.seenRefs.Get(hook.Reference); seen {
		ctx.JSON(http.StatusOK, basemodels.NewSuccess("Deposit Already Processed", nil))
		return
	}

	found, err := w.walletService.GetWalletByWalletID(ctx, hook.WalletID)
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	// keep whatever extra fields the provider sent alongside the deposit
	metadata := map[string]interface{}{}
	_ = json.Unmarshal(payload, &metadata)
	delete(metadata, "reference")
	delete(metadata, "amount")
	delete(metadata, "wallet_id")
	metadata["source"] = "payscribe_webhook"

	created, err := w.transactionService.CreateDeposit(ctx, found.ID, amount, hook.Reference, metadata)
	if err == transaction.ErrDuplicateReference {
		w.server.seenRefs.Set(hook.Reference, true, gocache.DefaultExpiration)
		ctx.JSON(http.StatusOK, basemodels.NewSuccess("Deposit Already Processed", nil))
		return
	} else if err != nil {
		w.server.logger.Error("could not record deposit", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	w.server.seenRefs.Set(hook.Reference, true, gocache.DefaultExpiration)
	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Deposit Processed Successfully", models.ToTransactionResponse(created)))
}
