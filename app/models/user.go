package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"

	STATUS_PENDING  = "pending"
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"

	GENDER_FEMALE = "female"
	GENDER_MALE   = "male"
)

// User is a registered member of the matchmaking portal. Profile attributes
// are the matching inputs shown in the gallery; Gender additionally drives
// the free-entitlement policy for photo reveal.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	FirstName        string         `gorm:"type:varchar(100)" json:"first_name" validate:"required,min=2,max=100"`
	LastName         string         `gorm:"type:varchar(100)" json:"last_name" validate:"required,min=2,max=100"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	Phone            string         `gorm:"type:varchar(32)" json:"phone" validate:"max=32"`
	Password         string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role             string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status           string         `gorm:"type:varchar(50);default:'pending'" json:"status" validate:"oneof=pending active disabled"`
	Gender           string         `gorm:"type:varchar(16);index" json:"gender" validate:"oneof=female male"`
	BirthYear        int            `gorm:"default:0" json:"birth_year" validate:"omitempty,min=1920,max=2010"`
	City             string         `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	Religion         string         `gorm:"type:varchar(100)" json:"religion" validate:"max=100"`
	Bio              string         `gorm:"type:text;default:null" json:"bio" validate:"max=2000"`
	ProfileViews     int64          `gorm:"default:0" json:"profile_views"`
	EmailVerified    bool           `gorm:"default:false" json:"email_verified"`
	ActivationToken  string         `gorm:"type:varchar(100);index" json:"-"`
	ActivationSentAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt      *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(firstName, lastName, email, phone, gender, password string) (*User, error) {
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Gender:    gender,
		Password:  pw,
		Role:      ROLE_USER,
		Status:    STATUS_PENDING,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// GenerateActivationToken creates a random token and sets ActivationSentAt
func (u *User) GenerateActivationToken() error {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	u.ActivationToken = hex.EncodeToString(b)
	now := time.Now()
	u.ActivationSentAt = &now
	return nil
}

// IsActive reports whether the member passed admin approval
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsFemale reports the gender used by the free photo-reveal policy
func (u *User) IsFemale() bool {
	return u.Gender == GENDER_FEMALE
}

// DisplayName is the public gallery name
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
