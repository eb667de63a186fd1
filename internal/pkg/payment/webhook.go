package payment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WebhookEvent is the normalized shape of a gateway payment notification.
// The gateway has shipped the status under two different field names over
// time, so both are accepted.
type WebhookEvent struct {
	OrderID string
	Status  string
	Amount  string
}

func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var raw struct {
		OrderID           string      `json:"order_id"`
		TransactionStatus string      `json:"transaction_status"`
		Status            string      `json:"status"`
		Amount            json.Number `json:"amount"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWebhookMalformed, err)
	}

	status := strings.TrimSpace(raw.TransactionStatus)
	if status == "" {
		status = strings.TrimSpace(raw.Status)
	}

	out := &WebhookEvent{
		OrderID: strings.TrimSpace(raw.OrderID),
		Status:  status,
		Amount:  raw.Amount.String(),
	}
	if out.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order_id", ErrWebhookMalformed)
	}
	if out.Status == "" {
		return nil, fmt.Errorf("%w: missing status", ErrWebhookMalformed)
	}
	return out, nil
}

// IsSuccess reports whether the gateway status denotes a completed payment.
// The gateway emits "paid" on current API versions and "success" on older
// ones.
func (e *WebhookEvent) IsSuccess() bool {
	switch strings.ToLower(strings.TrimSpace(e.Status)) {
	case "paid", "success":
		return true
	default:
		return false
	}
}
