package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/jkimani/PairMatch/app/models"
)

// RecordWebhookEvent persists a raw gateway delivery idempotently. When the
// gateway does not send a delivery id, the body hash stands in so exact
// duplicate bodies still collapse onto one row.
func (s *Service) RecordWebhookEvent(ctx context.Context, providerEventID, orderID string, payload []byte, signatureValid bool) (bool, *models.PaymentWebhookEvent, error) {
	_ = ctx
	eventID := strings.TrimSpace(providerEventID)
	if eventID == "" {
		sum := sha256.Sum256(payload)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.PaymentWebhookEvent{
		Provider:        models.PaymentProviderFusionPay,
		ProviderEventID: eventID,
		OrderID:         strings.TrimSpace(orderID),
		PayloadJSON:     string(payload),
		SignatureValid:  signatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// GetSubscription returns the member's entitlement record, if any.
func (s *Service) GetSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	_ = ctx
	return s.repo.GetSubscriptionByUser(userID)
}
