package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *GatewayClient {
	return &GatewayClient{
		BaseURL:    baseURL,
		APIKey:     "sk_test",
		ReturnURL:  "https://pairmatch.example/subscription/thanks",
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func checkoutInput() CheckoutRequest {
	return CheckoutRequest{
		Amount:        decimal.NewFromInt(5000),
		Currency:      "XOF",
		Description:   "PairMatch subscription (3 months)",
		CustomerName:  "Awa Diop",
		CustomerPhone: "+221771234567",
	}
}

func TestCreateCheckout(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ord-1","checkout_url":"https://pay.example/ord-1"}`))
	}))
	defer srv.Close()

	session, err := testClient(srv.URL).CreateCheckout(context.Background(), checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, "ord-1", session.OrderID)
	assert.Equal(t, "https://pay.example/ord-1", session.CheckoutURL)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "XOF", gotBody["currency"])
	assert.Equal(t, "https://pairmatch.example/subscription/thanks", gotBody["return_url"])
}

func TestCreateCheckoutLegacyFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-9","url":"https://pay.example/tok-9"}`))
	}))
	defer srv.Close()

	session, err := testClient(srv.URL).CreateCheckout(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, "tok-9", session.OrderID)
	assert.Equal(t, "https://pay.example/tok-9", session.CheckoutURL)
}

func TestCreateCheckoutRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"amount below minimum"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateCheckout(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestCreateCheckoutIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"ord-1"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateCheckout(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestCreateCheckoutUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).CreateCheckout(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateCheckoutTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.HTTPClient.Timeout = 50 * time.Millisecond

	_, err := client.CreateCheckout(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateCheckoutMissingConfig(t *testing.T) {
	client := &GatewayClient{HTTPClient: http.DefaultClient}
	_, err := client.CreateCheckout(context.Background(), checkoutInput())
	assert.Error(t, err)
}
