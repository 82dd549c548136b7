package repositories

import (
	"errors"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEndUserNotFound = errors.New("end user not found")

type EndUserRepository interface {
	FirstOrCreate(db *gorm.DB, telegramID int64, language string) (*models.EndUser, error)
	FindByTelegramID(db *gorm.DB, telegramID int64) (*models.EndUser, error)
	FindByID(db *gorm.DB, id uint) (*models.EndUser, error)
}

type endUserRepository struct{}

func NewEndUserRepository() EndUserRepository {
	return &endUserRepository{}
}

func (r *endUserRepository) FirstOrCreate(db *gorm.DB, telegramID int64, language string) (*models.EndUser, error) {
	if language == "" {
		language = "en"
	}
	var endUser models.EndUser
	err := db.Where(models.EndUser{TelegramID: telegramID}).
		Attrs(models.EndUser{Language: language}).
		FirstOrCreate(&endUser).Error
	if err != nil {
		return nil, err
	}
	return &endUser, nil
}

func (r *endUserRepository) FindByTelegramID(db *gorm.DB, telegramID int64) (*models.EndUser, error) {
	var endUser models.EndUser
	if err := db.Where("telegram_id = ?", telegramID).First(&endUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEndUserNotFound
		}
		return nil, err
	}
	return &endUser, nil
}

func (r *endUserRepository) FindByID(db *gorm.DB, id uint) (*models.EndUser, error) {
	var endUser models.EndUser
	if err := db.First(&endUser, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEndUserNotFound
		}
		return nil, err
	}
	return &endUser, nil
}
