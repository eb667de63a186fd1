package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MatchStatusProposed  = "proposed"
	MatchStatusScheduled = "scheduled"
	MatchStatusCompleted = "completed"
	MatchStatusCancelled = "cancelled"
)

// Match is an admin-arranged introduction between two members, optionally
// with a scheduled meeting. Plain CRUD; there is no conflict detection on
// meeting times.
type Match struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	MemberAID   uint           `gorm:"not null;index" json:"member_a_id"`
	MemberA     User           `gorm:"foreignKey:MemberAID" json:"member_a,omitempty"`
	MemberBID   uint           `gorm:"not null;index" json:"member_b_id"`
	MemberB     User           `gorm:"foreignKey:MemberBID" json:"member_b,omitempty"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	Status      string         `gorm:"type:varchar(20);not null;default:'proposed'" json:"status" validate:"oneof=proposed scheduled completed cancelled"`
	MeetingAt   *time.Time     `gorm:"type:timestamp;default:null" json:"meeting_at,omitempty"`
	Note        string         `gorm:"type:text" json:"note" validate:"max=2000"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
