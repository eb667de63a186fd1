package payment

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jkimani/PairMatch/app/models"
)

// Repository provides the DB operations used by the payment service. The two
// state transitions (ledger to paid, subscription extension) are expressed as
// single conditional statements so that racing webhook deliveries contend on
// the store's per-statement atomicity instead of read-then-write application
// code. Transaction groups both transitions: a grant either commits whole or
// leaves the ledger entry pending for the next delivery.
type Repository interface {
	Transaction(fn func(Repository) error) error
	GetUserByID(id uint) (*models.User, error)
	GetPendingTransactionByUser(userID uint, notOlderThan time.Time) (*models.PaymentTransaction, error)
	CreateTransaction(tx *models.PaymentTransaction) error
	GetTransactionByOrderID(orderID string) (*models.PaymentTransaction, error)
	MarkTransactionPaid(orderID string, paidAt time.Time) (bool, error)
	MarkTransactionFailed(orderID string) (bool, error)
	GetSubscriptionByUser(userID uint) (*models.Subscription, error)
	UpsertSubscriptionActive(userID uint, endDate time.Time) error
	CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Transaction runs fn against a transactional repository. Any error from fn
// rolls back every write made through it.
func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) GetPendingTransactionByUser(userID uint, notOlderThan time.Time) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := r.db.
		Where("user_id = ? AND status = ? AND created_at >= ?", userID, models.PaymentStatusPending, notOlderThan).
		Order("created_at DESC").
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *gormRepository) CreateTransaction(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

func (r *gormRepository) GetTransactionByOrderID(orderID string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	if err := r.db.Where("order_id = ?", orderID).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarkTransactionPaid flips the ledger entry to paid exactly once. The
// returned bool is true only for the delivery that actually performed the
// transition; duplicates see zero affected rows.
func (r *gormRepository) MarkTransactionPaid(orderID string, paidAt time.Time) (bool, error) {
	res := r.db.Model(&models.PaymentTransaction{}).
		Where("order_id = ? AND status <> ?", orderID, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": &paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkTransactionFailed moves a still-pending entry to failed. Entries that
// already reached a terminal state are left alone.
func (r *gormRepository) MarkTransactionFailed(orderID string) (bool, error) {
	res := r.db.Model(&models.PaymentTransaction{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) GetSubscriptionByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpsertSubscriptionActive(userID uint, endDate time.Time) error {
	sub := &models.Subscription{
		UserID:  userID,
		Status:  models.SubscriptionStatusActive,
		EndDate: &endDate,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"end_date",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PaymentWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
