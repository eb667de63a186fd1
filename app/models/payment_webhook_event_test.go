package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentWebhookEventProcessedOK(t *testing.T) {
	now := time.Now()

	t.Run("never processed", func(t *testing.T) {
		ev := &PaymentWebhookEvent{}
		assert.False(t, ev.ProcessedOK())
	})

	t.Run("processed cleanly", func(t *testing.T) {
		ev := &PaymentWebhookEvent{ProcessedAt: &now}
		assert.True(t, ev.ProcessedOK())
	})

	t.Run("recorded with rejected signature", func(t *testing.T) {
		// A forged or misconfigured first delivery must not make the
		// genuine delivery with the same id look like a duplicate.
		ev := &PaymentWebhookEvent{
			ProcessedAt:     &now,
			SignatureValid:  false,
			ProcessingError: "invalid webhook signature",
		}
		assert.False(t, ev.ProcessedOK())
	})

	t.Run("handler error", func(t *testing.T) {
		ev := &PaymentWebhookEvent{
			ProcessedAt:     &now,
			SignatureValid:  true,
			ProcessingError: "payment: entitlement write failed: db gone",
		}
		assert.False(t, ev.ProcessedOK())
	})
}
