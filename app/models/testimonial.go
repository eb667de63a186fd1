package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Testimonial is a member-submitted review shown on the public landing pages
// once an admin approves it.
type Testimonial struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	Content    string         `gorm:"type:text;not null" json:"content" validate:"required,max=2000"`
	Rating     int            `gorm:"default:5" json:"rating" validate:"min=1,max=5"`
	IsApproved bool           `gorm:"default:false;index" json:"is_approved"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Testimonial) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
