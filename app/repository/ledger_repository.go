package repository

import (
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates the admin read side of the payment ledger
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ListTransactions(offset, limit int) ([]models.PaymentTransaction, error) {
	var list []models.PaymentTransaction
	err := r.db.Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *ledgerRepository) ListTransactionsByUser(userID uint) ([]models.PaymentTransaction, error) {
	var list []models.PaymentTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ledgerRepository) CountTransactionsByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentTransaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *ledgerRepository) ListSubscriptions(offset, limit int) ([]models.Subscription, error) {
	var list []models.Subscription
	err := r.db.Preload("User").
		Order("updated_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
