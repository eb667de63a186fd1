package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberPhoto references the stored variants of one gallery photo. The
// original and thumbnail keys are only served to entitled viewers; the
// blurred preview is the public variant.
type MemberPhoto struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UUID       string         `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"-"`
	ObjectKey  string         `gorm:"type:varchar(255);not null" json:"-"`
	BlurredKey string         `gorm:"type:varchar(255);not null" json:"-"`
	ThumbKey   string         `gorm:"type:varchar(255)" json:"-"`
	FileSize   int64          `json:"file_size"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	IsPrimary  bool           `gorm:"default:false" json:"is_primary"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
