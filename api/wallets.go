package api

import (
	"net/http"

	"github.com/NexaPay/NexaPay-Backend/api/apistrings"
	models "github.com/NexaPay/NexaPay-Backend/api/models"
	basemodels "github.com/NexaPay/NexaPay-Backend/models"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/gin-gonic/gin"
)

type Wallet struct {
	server        *Server
	walletService *wallet.WalletService
}

func (w Wallet) router(server *Server) {
	w.server = server
	w.walletService = wallet.NewWalletService(server.store, server.virtualAccounts(), server.logger)

	serverGroupV1 := server.router.Group("/api/v1/wallets")
	serverGroupV1.POST("", w.createWallet)
	serverGroupV1.GET(":wallet_id", w.getWallet)
	serverGroupV1.DELETE(":wallet_id", w.deleteWallet)
}

func (w *Wallet) createWallet(ctx *gin.Context) {
	request := struct {
		UserID int64  `json:"user_id" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
	}{}

	err := ctx.ShouldBindJSON(&request)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidWalletInput))
		return
	}

	created, err := w.walletService.CreateWallet(ctx, request.UserID, request.Email)
	if err == wallet.ErrWalletExists {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.DuplicateWallet))
		return
	} else if err != nil {
		w.server.logger.Error("could not create wallet", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusCreated, basemodels.NewSuccess("Wallet Created Successfully", models.ToWalletResponse(created)))
}

func (w *Wallet) getWallet(ctx *gin.Context) {
	found, err := w.walletService.GetWalletByWalletID(ctx, ctx.Param("wallet_id"))
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Fetched Successfully", models.ToWalletResponse(found)))
}

func (w *Wallet) deleteWallet(ctx *gin.Context) {
	found, err := w.walletService.GetWalletByWalletID(ctx, ctx.Param("wallet_id"))
	if err == wallet.ErrWalletNotFound {
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	err = w.walletService.DeleteWallet(ctx, found.ID)
	if err == wallet.ErrWalletHasTransactions {
		ctx.JSON(http.StatusConflict, basemodels.NewError(apistrings.WalletHasHistory))
		return
	} else if err != nil {
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Wallet Removed Successfully", nil))
}
