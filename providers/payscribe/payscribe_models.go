package payscribe

import "encoding/json"

// ProviderResult is the outcome of a Payscribe call. Business and transport
// failures both surface as Success=false with the detail in Error/Payload;
// callers decide how to record the outcome, they never handle a fault.
type ProviderResult struct {
	Success bool            `json:"success"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type BankDetails struct {
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type VirtualAccountData struct {
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Reference     string `json:"reference"`
}

type DataPlan struct {
	PlanCode string `json:"plan_code"`
	Network  string `json:"network"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
}

type createVirtualAccountRequest struct {
	CustomerEmail string `json:"customer_email"`
	WalletID      string `json:"wallet_id"`
	IsPermanent   bool   `json:"is_permanent"`
}

type payoutRequest struct {
	Amount        string `json:"amount"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Reference     string `json:"reference"`
	Narration     string `json:"narration"`
}

type airtimeRequest struct {
	PhoneNumber string `json:"phone_number"`
	Amount      string `json:"amount"`
	Network     string `json:"network"`
}

type dataRequest struct {
	PhoneNumber string `json:"phone_number"`
	PlanCode    string `json:"plan_code"`
	Network     string `json:"network"`
}

type dataPlansResponse struct {
	Plans []DataPlan `json:"plans"`
}

// ParseVirtualAccount extracts the virtual account binding from a
// successful create-virtual-account payload.
func ParseVirtualAccount(result *ProviderResult) (*VirtualAccountData, error) {
	var data VirtualAccountData
	if err := json.Unmarshal(result.Payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
