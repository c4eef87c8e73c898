package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWalletWithoutGateway(t *testing.T) {
	s, store := newTestServer(t, nil)

	// no gateway configured: the wallet must still open, unbound
	rec := postJSON(s, "/api/v1/wallets", map[string]interface{}{
		"user_id": 7,
		"email":   "ada@example.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "virtual_account_number")

	w, err := store.GetWalletByUserID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "0.00", w.Balance)
	assert.False(t, w.VirtualAccountNumber.Valid)
}

func TestCreateWalletRejectsDuplicateUser(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := map[string]interface{}{
		"user_id": 7,
		"email":   "ada@example.com",
	}
	rec := postJSON(s, "/api/v1/wallets", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(s, "/api/v1/wallets", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetWalletHandler(t *testing.T) {
	s, store := newTestServer(t, nil)
	seedWallet(t, store, 1, "NEXA0000000001", "250.00")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/NEXA0000000001", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"250.00"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/NEXA4040404040", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
