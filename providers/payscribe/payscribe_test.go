package payscribe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyAirtimeSuccess(t *testing.T) {
	var got airtimeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vas/airtime", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":"delivered"}`))
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	result := p.BuyAirtime("08030000000", decimal.NewFromInt(500), "mtn")

	assert.True(t, result.Success)
	assert.Contains(t, string(result.Payload), "delivered")
	assert.Equal(t, "500.00", got.Amount)
	assert.Equal(t, "MTN", got.Network)
}

func TestProcessWithdrawalBusinessFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid account number"}`))
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	result := p.ProcessWithdrawal(decimal.NewFromInt(1000), BankDetails{
		BankCode:      "058",
		AccountNumber: "0000000000",
		AccountName:   "Ada Obi",
	}, "WDR-TEST0001", "rent")

	// a declined payout is a result, never an error
	assert.False(t, result.Success)
	assert.Contains(t, string(result.Payload), "invalid account number")
	assert.NotEmpty(t, result.Error)
}

func TestPostAbsorbsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p := New(server.URL, "test-key", nil)
	result := p.BuyData("08030000000", "MTN-1GB", "mtn")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestPostAbsorbsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	p.Client.Timeout = 50 * time.Millisecond

	result := p.BuyAirtime("08030000000", decimal.NewFromInt(100), "glo")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestCreateVirtualAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/virtual-accounts", r.URL.Path)
		var req createVirtualAccountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.IsPermanent)
		w.Write([]byte(`{"account_number":"9012345678","bank_name":"Providus Bank","reference":"VA-1"}`))
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	result := p.CreateVirtualAccount("ada@example.com", "NEXA0000000001")
	require.True(t, result.Success)

	account, err := ParseVirtualAccount(result)
	require.NoError(t, err)
	assert.Equal(t, "9012345678", account.AccountNumber)
	assert.Equal(t, "Providus Bank", account.BankName)
}

func TestGetDataPlans(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vas/data/plans", r.URL.Path)
		assert.Equal(t, "MTN", r.URL.Query().Get("network"))
		w.Write([]byte(`{"plans":[{"plan_code":"MTN-1GB","network":"MTN","name":"1GB Monthly","amount":"300.00"}]}`))
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	plans, err := p.GetDataPlans("mtn")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "MTN-1GB", plans[0].PlanCode)
	assert.Equal(t, "300.00", plans[0].Amount)
}

func TestGetDataPlansErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := New(server.URL, "test-key", nil)
	_, err := p.GetDataPlans("mtn")
	assert.Error(t, err)
}
