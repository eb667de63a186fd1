package repository

import (
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
)

// GORM-backed implementations of the notification, request, match and
// testimonial repositories. These are plain CRUD; anything with real state
// transition rules lives in internal/pkg/payment.

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) GetByUserID(userID uint, offset, limit int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *notificationRepository) GetByID(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(id uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Update("is_read", true).Error
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository instance
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(req *models.MatchRequest) error {
	return r.db.Create(req).Error
}

func (r *requestRepository) GetByID(id uint) (*models.MatchRequest, error) {
	var req models.MatchRequest
	if err := r.db.Preload("Sender").Preload("Receiver").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetBetween(senderID, receiverID uint) (*models.MatchRequest, error) {
	var req models.MatchRequest
	err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListSent(userID uint) ([]models.MatchRequest, error) {
	var list []models.MatchRequest
	err := r.db.Preload("Receiver").Where("sender_id = ?", userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *requestRepository) ListReceived(userID uint) ([]models.MatchRequest, error) {
	var list []models.MatchRequest
	err := r.db.Preload("Sender").Where("receiver_id = ?", userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *requestRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.MatchRequest{}).Where("id = ?", id).Update("status", status).Error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new match repository instance
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(match *models.Match) error {
	return r.db.Create(match).Error
}

func (r *matchRepository) GetByID(id uint) (*models.Match, error) {
	var m models.Match
	if err := r.db.Preload("MemberA").Preload("MemberB").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ListByMember(userID uint) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Preload("MemberA").Preload("MemberB").
		Where("member_a_id = ? OR member_b_id = ?", userID, userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *matchRepository) ListAll(offset, limit int) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Preload("MemberA").Preload("MemberB").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *matchRepository) Update(match *models.Match) error {
	return r.db.Save(match).Error
}

func (r *matchRepository) Delete(id uint) error {
	return r.db.Delete(&models.Match{}, id).Error
}

type testimonialRepository struct {
	db *gorm.DB
}

// NewTestimonialRepository creates a new testimonial repository instance
func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func (r *testimonialRepository) Create(t *models.Testimonial) error {
	return r.db.Create(t).Error
}

func (r *testimonialRepository) GetByID(id uint) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := r.db.Preload("User").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *testimonialRepository) ListApproved(limit int) ([]models.Testimonial, error) {
	var list []models.Testimonial
	err := r.db.Preload("User").Where("is_approved = ?", true).
		Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *testimonialRepository) ListAll(offset, limit int) ([]models.Testimonial, error) {
	var list []models.Testimonial
	err := r.db.Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *testimonialRepository) SetApproved(id uint, approved bool) error {
	return r.db.Model(&models.Testimonial{}).Where("id = ?", id).Update("is_approved", approved).Error
}

func (r *testimonialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Testimonial{}, id).Error
}
