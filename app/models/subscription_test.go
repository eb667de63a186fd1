package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionHasTimeLeft(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active with future end", Subscription{Status: SubscriptionStatusActive, EndDate: &future}, true},
		{"active but past end", Subscription{Status: SubscriptionStatusActive, EndDate: &past}, false},
		{"active without end date", Subscription{Status: SubscriptionStatusActive}, false},
		{"inactive with future end", Subscription{Status: SubscriptionStatusInactive, EndDate: &future}, false},
		{"active end exactly now", Subscription{Status: SubscriptionStatusActive, EndDate: &now}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sub.HasTimeLeft(now))
		})
	}
}

func TestPaymentTransactionIsTerminal(t *testing.T) {
	assert.False(t, (&PaymentTransaction{Status: PaymentStatusPending}).IsTerminal())
	assert.True(t, (&PaymentTransaction{Status: PaymentStatusPaid}).IsTerminal())
	assert.True(t, (&PaymentTransaction{Status: PaymentStatusFailed}).IsTerminal())
}
