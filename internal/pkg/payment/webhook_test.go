package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEvent(t *testing.T) {
	t.Run("current field names", func(t *testing.T) {
		ev, err := ParseWebhookEvent([]byte(`{"order_id":"ord-1","transaction_status":"paid","amount":5000}`))
		require.NoError(t, err)
		assert.Equal(t, "ord-1", ev.OrderID)
		assert.Equal(t, "paid", ev.Status)
		assert.Equal(t, "5000", ev.Amount)
	})

	t.Run("legacy status field", func(t *testing.T) {
		ev, err := ParseWebhookEvent([]byte(`{"order_id":"ord-1","status":"success"}`))
		require.NoError(t, err)
		assert.Equal(t, "success", ev.Status)
	})

	t.Run("transaction_status wins over status", func(t *testing.T) {
		ev, err := ParseWebhookEvent([]byte(`{"order_id":"ord-1","transaction_status":"paid","status":"pending"}`))
		require.NoError(t, err)
		assert.Equal(t, "paid", ev.Status)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte("not json"))
		assert.ErrorIs(t, err, ErrWebhookMalformed)
	})

	t.Run("missing order id", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte(`{"status":"paid"}`))
		assert.ErrorIs(t, err, ErrWebhookMalformed)
	})

	t.Run("missing status", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte(`{"order_id":"ord-1"}`))
		assert.ErrorIs(t, err, ErrWebhookMalformed)
	})
}

func TestWebhookEventIsSuccess(t *testing.T) {
	cases := map[string]bool{
		"paid":      true,
		"PAID":      true,
		"success":   true,
		" Success ": true,
		"pending":   false,
		"failed":    false,
		"cancelled": false,
		"":          false,
	}
	for status, want := range cases {
		ev := WebhookEvent{Status: status}
		if ev.IsSuccess() != want {
			t.Fatalf("IsSuccess(%q) = %v, want %v", status, ev.IsSuccess(), want)
		}
	}
}

func signHex(payload []byte, secret string, sha512Mode bool) string {
	h := sha256.New
	if sha512Mode {
		h = sha512.New
	}
	mac := hmac.New(h, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"order_id":"ord-1","transaction_status":"paid"}`)
	secret := "whsec_test"

	t.Run("sha256 signature", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature(payload, signHex(payload, secret, false), secret))
	})

	t.Run("legacy sha512 signature", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature(payload, signHex(payload, secret, true), secret))
	})

	t.Run("uppercase hex accepted", func(t *testing.T) {
		sig := signHex(payload, secret, false)
		assert.True(t, VerifyWebhookSignature(payload, "  "+sig+"  ", secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, signHex(payload, "other", false), secret))
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := signHex(payload, secret, false)
		assert.False(t, VerifyWebhookSignature([]byte(`{"order_id":"ord-2"}`), sig, secret))
	})

	t.Run("missing signature", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, "", secret))
	})

	t.Run("missing secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, signHex(payload, secret, false), ""))
	})

	t.Run("not hex", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, "zz-not-hex", secret))
	})
}
