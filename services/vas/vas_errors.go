package vas

import (
	"fmt"

	"github.com/NexaPay/NexaPay-Backend/providers/payscribe"
)

var (
	ErrPlanNotFound   = fmt.Errorf("data plan not found")
	ErrUnknownNetwork = fmt.Errorf("unknown network")
)

// PurchaseError reports a provider-declined purchase. No wallet mutation
// happened; the result carries the provider's own detail for the caller.
type PurchaseError struct {
	Result *payscribe.ProviderResult
}

func (e *PurchaseError) Error() string {
	if e.Result != nil && e.Result.Error != "" {
		return fmt.Sprintf("purchase failed: %s", e.Result.Error)
	}
	return "purchase failed"
}
