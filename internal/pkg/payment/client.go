package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkimani/PairMatch/internal/pkg/env"
)

const defaultGatewayTimeout = 10 * time.Second

// GatewayClient talks to the mobile-money checkout API. The gateway hosts the
// payment page itself; we only create a checkout session and receive the
// outcome later via webhook.
type GatewayClient struct {
	BaseURL   string
	APIKey    string
	ReturnURL string

	HTTPClient *http.Client
}

// CheckoutRequest describes one fixed-price subscription checkout.
type CheckoutRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	ReturnURL     string          `json:"return_url"`
}

// CheckoutSession is the gateway's answer: the order id it assigned and the
// hosted checkout page to redirect the member to.
type CheckoutSession struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
}

func NewGatewayClientFromEnv() *GatewayClient {
	base := strings.TrimRight(env.GetEnv("PAYMENT_GATEWAY_URL", ""), "/")
	returnURL := strings.TrimSpace(env.GetEnv("PAYMENT_RETURN_URL", ""))
	if returnURL == "" {
		if domain := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/"); domain != "" {
			returnURL = domain + "/subscription/thanks"
		}
	}

	return &GatewayClient{
		BaseURL:   base,
		APIKey:    strings.TrimSpace(env.GetEnv("PAYMENT_API_KEY", "")),
		ReturnURL: returnURL,
		HTTPClient: &http.Client{
			Timeout: defaultGatewayTimeout,
		},
	}
}

// CreateCheckout submits the checkout to the gateway. Transport failures and
// timeouts map to ErrGatewayUnavailable; anything the gateway refuses, or a
// success body without a checkout URL, maps to ErrGatewayRejected with the
// response attached for the logs.
func (c *GatewayClient) CreateCheckout(ctx context.Context, in CheckoutRequest) (*CheckoutSession, error) {
	if strings.TrimSpace(c.BaseURL) == "" || strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("PAYMENT_GATEWAY_URL/PAYMENT_API_KEY are not configured")
	}
	if in.ReturnURL == "" {
		in.ReturnURL = c.ReturnURL
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/checkout", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrGatewayRejected, resp.StatusCode, string(body))
	}

	// Gateway API versions disagree on field names; accept both.
	var raw struct {
		OrderID     string `json:"order_id"`
		Token       string `json:"token"`
		CheckoutURL string `json:"checkout_url"`
		URL         string `json:"url"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable body=%s", ErrGatewayRejected, string(body))
	}

	session := &CheckoutSession{
		OrderID:     strings.TrimSpace(raw.OrderID),
		CheckoutURL: strings.TrimSpace(raw.CheckoutURL),
	}
	if session.OrderID == "" {
		session.OrderID = strings.TrimSpace(raw.Token)
	}
	if session.CheckoutURL == "" {
		session.CheckoutURL = strings.TrimSpace(raw.URL)
	}
	if session.OrderID == "" || session.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: body lacks order id or checkout url: %s", ErrGatewayRejected, string(body))
	}
	return session, nil
}
