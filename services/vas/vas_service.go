package vas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/NexaPay/NexaPay-Backend/services/transaction"
	"github.com/NexaPay/NexaPay-Backend/services/wallet"
	"github.com/shopspring/decimal"
)

const dataPlansTTL = 10 * time.Minute

// Gateway is the slice of the Payscribe client the VAS service needs;
// tests substitute a stub.
type Gateway interface {
	BuyAirtime(phone string, amount decimal.Decimal, network string) *payscribe.ProviderResult
	BuyData(phone string, planCode string, network string) *payscribe.ProviderResult
	GetDataPlans(network string) ([]payscribe.DataPlan, error)
}

// PlanCache is satisfied by cache.RedisService. A nil cache just means
// every plan lookup hits the provider.
type PlanCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// VASService orchestrates airtime and data purchases: balance check, then
// the provider call, then the ledger commit. A provider failure never
// touches the wallet.
type VASService struct {
	transactions *transaction.TransactionService
	wallets      *wallet.WalletService
	gateway      Gateway
	cache        PlanCache
	logger       *logging.Logger
}

func NewVASService(transactions *transaction.TransactionService, wallets *wallet.WalletService, gateway Gateway, cache PlanCache, logger *logging.Logger) *VASService {
	return &VASService{
		transactions: transactions,
		wallets:      wallets,
		gateway:      gateway,
		cache:        cache,
		logger:       logger,
	}
}

// BuyAirtime tops up a phone from the wallet. The pre-check keeps obviously
// unfunded requests away from the provider; the ledger commit re-checks
// sufficiency under the row lock.
func (v *VASService) BuyAirtime(ctx context.Context, walletID string, phone string, amount decimal.Decimal, network string) (*transaction.Transaction, error) {
	if !amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}

	w, err := v.wallets.GetWalletByWalletID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.Balance.LessThan(amount) {
		return nil, transaction.ErrInsufficientFunds
	}

	result := v.gateway.BuyAirtime(phone, amount, network)
	if !result.Success {
		v.logger.Error("airtime purchase declined", result.Error)
		return nil, &PurchaseError{Result: result}
	}

	return v.transactions.CreateVASTransaction(ctx, w.ID, amount, transaction.TypeAirtime, map[string]interface{}{
		"phone":             phone,
		"network":           strings.ToUpper(network),
		"provider_response": json.RawMessage(result.Payload),
	})
}

// BuyData purchases a data bundle. The price comes from the plan catalogue,
// never from the caller.
func (v *VASService) BuyData(ctx context.Context, walletID string, phone string, planCode string, network string) (*transaction.Transaction, error) {
	plan, err := v.ResolveDataPlan(ctx, planCode, network)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(plan.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, transaction.ErrInvalidAmount
	}

	w, err := v.wallets.GetWalletByWalletID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.Balance.LessThan(amount) {
		return nil, transaction.ErrInsufficientFunds
	}

	result := v.gateway.BuyData(phone, plan.PlanCode, network)
	if !result.Success {
		v.logger.Error("data purchase declined", result.Error)
		return nil, &PurchaseError{Result: result}
	}

	return v.transactions.CreateVASTransaction(ctx, w.ID, amount, transaction.TypeData, map[string]interface{}{
		"phone":             phone,
		"plan_code":         plan.PlanCode,
		"plan_name":         plan.Name,
		"network":           strings.ToUpper(network),
		"provider_response": json.RawMessage(result.Payload),
	})
}

// GetDataPlans returns the bundle catalogue for a network, served from
// Redis when a fresh copy is cached.
func (v *VASService) GetDataPlans(ctx context.Context, network string) ([]payscribe.DataPlan, error) {
	key := plansCacheKey(network)

	if v.cache != nil {
		if cached, err := v.cache.Get(ctx, key); err == nil {
			var plans []payscribe.DataPlan
			if err := json.Unmarshal([]byte(cached), &plans); err == nil {
				return plans, nil
			}
			// a corrupt entry falls through to the provider
		}
	}

	plans, err := v.gateway.GetDataPlans(network)
	if err != nil {
		return nil, fmt.Errorf("fetch data plans: %w", err)
	}

	if v.cache != nil {
		if encoded, err := json.Marshal(plans); err == nil {
			if err := v.cache.Set(ctx, key, string(encoded), dataPlansTTL); err != nil {
				v.logger.Error("could not cache data plans", err)
			}
		}
	}

	return plans, nil
}

// ResolveDataPlan maps a plan code to its catalogue entry.
func (v *VASService) ResolveDataPlan(ctx context.Context, planCode string, network string) (*payscribe.DataPlan, error) {
	plans, err := v.GetDataPlans(ctx, network)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].PlanCode == planCode {
			return &plans[i], nil
		}
	}
	return nil, ErrPlanNotFound
}

func plansCacheKey(network string) string {
	return fmt.Sprintf("vas:data_plans:%s", strings.ToUpper(network))
}
