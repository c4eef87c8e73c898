package payscribe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NexaPay/NexaPay-Backend/providers"
	"github.com/NexaPay/NexaPay-Backend/services/logging"
	"github.com/NexaPay/NexaPay-Backend/utils"
	"github.com/shopspring/decimal"
)

type PayscribeProvider struct {
	providers.BaseProvider
	config *PayscribeConfig
}

type PayscribeConfig struct {
	BaseURL string `mapstructure:"PAYSCRIBE_BASE_URL"`
	APIKey  string `mapstructure:"PAYSCRIBE_API_KEY"`
}

// NewPayscribeProvider loads the Payscribe credentials from the environment.
func NewPayscribeProvider(logger *logging.Logger) *PayscribeProvider {

	var c PayscribeConfig

	err := utils.LoadCustomConfig(utils.EnvPath, &c)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	return New(c.BaseURL, c.APIKey, logger)
}

// New builds a provider against an explicit base URL, used by the server
// wiring and by tests pointed at a stub endpoint.
func New(baseURL, apiKey string, logger *logging.Logger) *PayscribeProvider {
	return &PayscribeProvider{
		BaseProvider: providers.BaseProvider{
			Name:    providers.Payscribe,
			BaseURL: baseURL,
			APIKey:  apiKey,
			Client: &http.Client{
				Timeout: time.Second * 30,
			},
			Logger: logger,
		},
		config: &PayscribeConfig{BaseURL: baseURL, APIKey: apiKey},
	}
}

// CreateVirtualAccount provisions a permanent funding account bound to the
// external wallet ID. Deposits to it arrive later as signed webhooks.
func (p *PayscribeProvider) CreateVirtualAccount(email string, walletID string) *ProviderResult {
	return p.post("/virtual-accounts", createVirtualAccountRequest{
		CustomerEmail: email,
		WalletID:      walletID,
		IsPermanent:   true,
	})
}

// ProcessWithdrawal requests a bank payout. The ledger's PENDING withdrawal
// row must already exist; the result drives complete/fail afterwards.
func (p *PayscribeProvider) ProcessWithdrawal(amount decimal.Decimal, bankDetails BankDetails, reference string, narration string) *ProviderResult {
	return p.post("/payouts/bank", payoutRequest{
		Amount:        amount.StringFixed(2),
		BankCode:      bankDetails.BankCode,
		AccountNumber: bankDetails.AccountNumber,
		AccountName:   bankDetails.AccountName,
		Reference:     reference,
		Narration:     narration,
	})
}

func (p *PayscribeProvider) BuyAirtime(phone string, amount decimal.Decimal, network string) *ProviderResult {
	return p.post("/vas/airtime", airtimeRequest{
		PhoneNumber: phone,
		Amount:      amount.StringFixed(2),
		Network:     strings.ToUpper(network),
	})
}

func (p *PayscribeProvider) BuyData(phone string, planCode string, network string) *ProviderResult {
	return p.post("/vas/data", dataRequest{
		PhoneNumber: phone,
		PlanCode:    planCode,
		Network:     strings.ToUpper(network),
	})
}

// GetDataPlans lists purchasable data bundles for a network, used to
// resolve a plan code to its price before charging the wallet.
func (p *PayscribeProvider) GetDataPlans(network string) ([]DataPlan, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	base.Path += "/vas/data/plans"

	q := base.Query()
	q.Set("network", strings.ToUpper(network))
	base.RawQuery = q.Encode()

	resp, err := p.MakeRequest("GET", base.String(), nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d \nURL: %s", resp.StatusCode, resp.Request.URL)
	}

	var plans dataPlansResponse
	decoder := json.NewDecoder(resp.Body)
	err = decoder.Decode(&plans)
	if err != nil {
		return nil, fmt.Errorf("error decoding response body: %w", err)
	}

	return plans.Plans, nil
}

// post runs one provider call and absorbs every failure mode into the
// result: transport errors, timeouts and non-2xx responses all come back as
// Success=false rather than an error.
func (p *PayscribeProvider) post(path string, payload interface{}) *ProviderResult {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return &ProviderResult{Success: false, Error: fmt.Sprintf("invalid base URL: %v", err)}
	}
	base.Path += path

	resp, err := p.MakeRequest("POST", base.String(), payload, nil)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error("Payscribe request failed", err)
		}
		return &ProviderResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderResult{Success: false, Error: fmt.Sprintf("error reading response body: %v", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if p.Logger != nil {
			p.Logger.Error("Payscribe error response", string(body))
		}
		return &ProviderResult{
			Success: false,
			Payload: body,
			Error:   fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
		}
	}

	return &ProviderResult{Success: true, Payload: body}
}
