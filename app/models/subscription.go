package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
)

// Subscription is the per-member entitlement record: one row per user,
// upserted by webhook reconciliation only. An "active" row past its end date
// counts as inactive; readers must go through entitlements.CanViewPhotos
// instead of checking Status directly.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Status    string     `gorm:"type:varchar(32);not null;default:'inactive'" json:"subscription_status"`
	EndDate   *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end_date,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasTimeLeft reports whether the paid window is still open at the given
// instant. It does not consider the gender policy; that lives in entitlements.
func (s *Subscription) HasTimeLeft(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndDate != nil && s.EndDate.After(now)
}
