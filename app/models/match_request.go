package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

// MatchRequest is an interest request one member sends to another. Accepting
// it is what allows admins to arrange an introduction (Match).
type MatchRequest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SenderID   uint           `gorm:"not null;index:ux_match_requests_pair,unique,priority:1" json:"sender_id"`
	Sender     User           `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint           `gorm:"not null;index:ux_match_requests_pair,unique,priority:2" json:"receiver_id"`
	Receiver   User           `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Message    string         `gorm:"type:text" json:"message" validate:"max=1000"`
	Status     string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" validate:"oneof=pending accepted declined"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOpen reports whether the request still awaits an answer.
func (r *MatchRequest) IsOpen() bool {
	return r.Status == RequestStatusPending
}
