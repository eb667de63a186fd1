package repository

import (
	"gorm.io/gorm"

	"github.com/jkimani/PairMatch/app/models"
)

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository instance
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(photo *models.MemberPhoto) error {
	return r.db.Create(photo).Error
}

func (r *photoRepository) GetByUUID(uuid string) (*models.MemberPhoto, error) {
	var photo models.MemberPhoto
	if err := r.db.Where("uuid = ?", uuid).First(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) GetByUserID(userID uint) ([]models.MemberPhoto, error) {
	var photos []models.MemberPhoto
	err := r.db.Where("user_id = ?", userID).Order("is_primary DESC, created_at ASC").Find(&photos).Error
	return photos, err
}

func (r *photoRepository) GetPrimaryByUserID(userID uint) (*models.MemberPhoto, error) {
	var photo models.MemberPhoto
	err := r.db.Where("user_id = ?", userID).Order("is_primary DESC, created_at ASC").First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) SetPrimary(userID, photoID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MemberPhoto{}).
			Where("user_id = ?", userID).Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.MemberPhoto{}).
			Where("id = ? AND user_id = ?", photoID, userID).Update("is_primary", true).Error
	})
}

func (r *photoRepository) Delete(id uint) error {
	return r.db.Delete(&models.MemberPhoto{}, id).Error
}
