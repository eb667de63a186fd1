package repository

import (
	"github.com/jkimani/PairMatch/app/models"
)

// UserRepository defines the interface for member-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListActive(gender string, offset, limit int) ([]models.User, error)
	ListByStatus(status string, offset, limit int) ([]models.User, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
}

// PhotoRepository defines the interface for member photo records
type PhotoRepository interface {
	Create(photo *models.MemberPhoto) error
	GetByUUID(uuid string) (*models.MemberPhoto, error)
	GetByUserID(userID uint) ([]models.MemberPhoto, error)
	GetPrimaryByUserID(userID uint) (*models.MemberPhoto, error)
	SetPrimary(userID, photoID uint) error
	Delete(id uint) error
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	GetByUserID(userID uint, offset, limit int) ([]models.Notification, error)
	GetByID(id uint) (*models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id uint) error
	MarkAllRead(userID uint) error
}

// RequestRepository defines the interface for interest requests between members
type RequestRepository interface {
	Create(req *models.MatchRequest) error
	GetByID(id uint) (*models.MatchRequest, error)
	GetBetween(senderID, receiverID uint) (*models.MatchRequest, error)
	ListSent(userID uint) ([]models.MatchRequest, error)
	ListReceived(userID uint) ([]models.MatchRequest, error)
	UpdateStatus(id uint, status string) error
}

// MatchRepository defines the interface for admin-arranged introductions
type MatchRepository interface {
	Create(match *models.Match) error
	GetByID(id uint) (*models.Match, error)
	ListByMember(userID uint) ([]models.Match, error)
	ListAll(offset, limit int) ([]models.Match, error)
	Update(match *models.Match) error
	Delete(id uint) error
}

// TestimonialRepository defines the interface for member reviews
type TestimonialRepository interface {
	Create(t *models.Testimonial) error
	GetByID(id uint) (*models.Testimonial, error)
	ListApproved(limit int) ([]models.Testimonial, error)
	ListAll(offset, limit int) ([]models.Testimonial, error)
	SetApproved(id uint, approved bool) error
	Delete(id uint) error
}

// LedgerRepository is the admin read side of the payment ledger. Mutations go
// through internal/pkg/payment exclusively.
type LedgerRepository interface {
	ListTransactions(offset, limit int) ([]models.PaymentTransaction, error)
	ListTransactionsByUser(userID uint) ([]models.PaymentTransaction, error)
	CountTransactionsByStatus(status string) (int64, error)
	ListSubscriptions(offset, limit int) ([]models.Subscription, error)
}
