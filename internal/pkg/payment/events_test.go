package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkimani/PairMatch/app/models"
)

func TestRecordWebhookEventUsesProviderEventID(t *testing.T) {
	svc := testService(newFakeRepo(), &fakeGateway{}, time.Now())

	created, stored, err := svc.RecordWebhookEvent(context.Background(), "evt-42", "ord-1", []byte(`{}`), true)
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "evt-42", stored.ProviderEventID)
	assert.Equal(t, models.PaymentProviderFusionPay, stored.Provider)
	assert.True(t, stored.SignatureValid)
}

func TestRecordWebhookEventBodyHashFallback(t *testing.T) {
	svc := testService(newFakeRepo(), &fakeGateway{}, time.Now())
	body := []byte(`{"order_id":"ord-1","status":"paid"}`)

	_, first, err := svc.RecordWebhookEvent(context.Background(), "", "ord-1", body, true)
	require.NoError(t, err)
	assert.Contains(t, first.ProviderEventID, "hash:")

	// The same body always derives the same synthetic id, so exact duplicate
	// deliveries collide on the unique index.
	_, second, err := svc.RecordWebhookEvent(context.Background(), "  ", "ord-1", body, true)
	require.NoError(t, err)
	assert.Equal(t, first.ProviderEventID, second.ProviderEventID)

	_, other, err := svc.RecordWebhookEvent(context.Background(), "", "ord-2", []byte(`{"order_id":"ord-2"}`), true)
	require.NoError(t, err)
	assert.NotEqual(t, first.ProviderEventID, other.ProviderEventID)
}

func TestMarkWebhookProcessedRequiresID(t *testing.T) {
	svc := testService(newFakeRepo(), &fakeGateway{}, time.Now())
	assert.Error(t, svc.MarkWebhookProcessed(context.Background(), 0, nil))
	assert.NoError(t, svc.MarkWebhookProcessed(context.Background(), 5, nil))
}
