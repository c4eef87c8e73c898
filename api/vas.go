package api

import (
	"errors"
	"net/http"

	"github.com/NexaPay/NexaPay-Backend/api/apistrings"
	models "github.com/NexaPay/NexaPay-Backend/api/models"
	basemodels "github.com/NexaPay/NexaPay-Backend/models"
	"github.com/NexaPay/NexaPay-Backend/services/transaction"
	"github.com/NexaPay/NexaPay-Backend/services/vas"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VAS struct {
	server     *Server
	vasService *vas.VASService
}

func (v VAS) router(server *Server) {
	v.server = server
	walletService := wallet.NewWalletService(server.store, server.virtualAccounts(), server.logger)
	transactionService := transaction.NewTransactionService(server.store, server.publisher, server.logger)
	v.vasService = vas.NewVASService(transactionService, walletService, server.gateway, server.plans, server.logger)

	serverGroupV1 := server.router.Group("/api/v1/vas")
	serverGroupV1.POST("airtime", v.buyAirtime)
	serverGroupV1.POST("data", v.buyData)
	serverGroupV1.GET("data/plans", v.getDataPlans)
}

func (v *VAS) buyAirtime(ctx *gin.Context) {
	request := struct {
		WalletID string `json:"wallet_id" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Amount   string `json:"amount" binding:"required"`
		Network  string `json:"network" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVASInput))
		return
	}

	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
		return
	}

	txn, err := v.vasService.BuyAirtime(ctx, request.WalletID, request.Phone, amount, request.Network)
	if err != nil {
		v.respondVASError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Airtime Purchased Successfully", models.ToTransactionResponse(txn)))
}

func (v *VAS) buyData(ctx *gin.Context) {
	request := struct {
		WalletID string `json:"wallet_id" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		PlanCode string `json:"plan_code" binding:"required"`
		Network  string `json:"network" binding:"required"`
	}{}

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVASInput))
		return
	}

	txn, err := v.vasService.BuyData(ctx, request.WalletID, request.Phone, request.PlanCode, request.Network)
	if err != nil {
		v.respondVASError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Data Purchased Successfully", models.ToTransactionResponse(txn)))
}

func (v *VAS) getDataPlans(ctx *gin.Context) {
	network := ctx.Query("network")
	if network == "" {
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidVASInput))
		return
	}

	plans, err := v.vasService.GetDataPlans(ctx, network)
	if err != nil {
		v.server.logger.Error("could not fetch data plans", err)
		ctx.JSON(http.StatusBadGateway, basemodels.NewError(apistrings.ServerError))
		return
	}

	ctx.JSON(http.StatusOK, basemodels.NewSuccess("Data Plans Fetched Successfully", plans))
}

func (v *VAS) respondVASError(ctx *gin.Context, err error) {
	var purchaseErr *vas.PurchaseError
	switch {
	case errors.As(err, &purchaseErr):
		resp := basemodels.NewError(apistrings.ServerError)
		resp.Message = purchaseErr.Error()
		ctx.JSON(http.StatusBadGateway, resp)
	case err == vas.ErrPlanNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.PlanNotFound))
	case err == wallet.ErrWalletNotFound:
		ctx.JSON(http.StatusNotFound, basemodels.NewError(apistrings.WalletNotFound))
	case err == transaction.ErrInvalidAmount:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InvalidAmount))
	case err == transaction.ErrInsufficientFunds:
		ctx.JSON(http.StatusBadRequest, basemodels.NewError(apistrings.InsufficientFunds))
	default:
		v.server.logger.Error("vas purchase failed", err)
		ctx.JSON(http.StatusInternalServerError, basemodels.NewError(apistrings.ServerError))
	}
}
