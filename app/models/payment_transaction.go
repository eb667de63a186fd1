package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentProviderFusionPay = "fusionpay"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentTransaction is one ledger entry per checkout attempt. OrderID is the
// gateway-assigned identifier and the join key between initiation and webhook
// reconciliation; it is unique per attempt. Status moves pending -> paid or
// pending -> failed exactly once.
type PaymentTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID" json:"-"`
	Provider    string          `gorm:"type:varchar(20);not null;default:'fusionpay'" json:"provider"`
	OrderID     string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(8);not null;default:'XOF'" json:"currency"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CheckoutURL string          `gorm:"type:varchar(512)" json:"-"`
	PaidAt      *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsTerminal reports whether the ledger entry already reached its final state.
func (t *PaymentTransaction) IsTerminal() bool {
	return t.Status == PaymentStatusPaid || t.Status == PaymentStatusFailed
}
