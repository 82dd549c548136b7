package repositories

import (
	"errors"
	"time"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository interface {
	Create(db *gorm.DB, subscription *models.Subscription) error
	FindByID(db *gorm.DB, id uint) (*models.Subscription, error)
	// FindActive - активная и не истекшая подписка подписчика на проект
	FindActive(db *gorm.DB, endUserID, projectID uint, now time.Time) (*models.Subscription, error)
	// LatestActiveEnd - конец самой поздней активной подписки (для продления "в стык")
	LatestActiveEnd(db *gorm.DB, endUserID, projectID uint, now time.Time) (*time.Time, error)
	FindByProject(db *gorm.DB, projectID uint, status models.SubscriptionStatus, limit, offset int) ([]models.Subscription, int64, error)
	FindActiveByEndUser(db *gorm.DB, endUserID uint, now time.Time) ([]models.Subscription, error)
	CountByPayment(db *gorm.DB, paymentID uint) (int64, error)

	// FindExpired - активные подписки с end_at <= now
	FindExpired(db *gorm.DB, now time.Time, limit int) ([]models.Subscription, error)
	// MarkExpired переводит active -> expired; false, если статус уже сменился
	MarkExpired(db *gorm.DB, id uint) (bool, error)
}

type subscriptionRepository struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &subscriptionRepository{}
}

func (r *subscriptionRepository) Create(db *gorm.DB, subscription *models.Subscription) error {
	return db.Create(subscription).Error
}

func (r *subscriptionRepository) FindByID(db *gorm.DB, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := db.Preload("Plan").First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindActive(db *gorm.DB, endUserID, projectID uint, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := db.Where("end_user_id = ? AND project_id = ? AND status = ? AND end_at > ?",
		endUserID, projectID, models.SubscriptionStatusActive, now).
		Order("end_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) LatestActiveEnd(db *gorm.DB, endUserID, projectID uint, now time.Time) (*time.Time, error) {
	sub, err := r.FindActive(db, endUserID, projectID, now)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	end := sub.EndAt
	return &end, nil
}

func (r *subscriptionRepository) FindByProject(db *gorm.DB, projectID uint, status models.SubscriptionStatus, limit, offset int) ([]models.Subscription, int64, error) {
	var subs []models.Subscription
	var total int64

	query := db.Model(&models.Subscription{}).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("EndUser").Preload("Plan").
		Order("end_at DESC").Limit(limit).Offset(offset).
		Find(&subs).Error
	return subs, total, err
}

func (r *subscriptionRepository) FindActiveByEndUser(db *gorm.DB, endUserID uint, now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := db.Preload("Plan").Preload("Project").
		Where("end_user_id = ? AND status = ? AND end_at > ?", endUserID, models.SubscriptionStatusActive, now).
		Order("end_at ASC").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) CountByPayment(db *gorm.DB, paymentID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Subscription{}).Where("payment_id = ?", paymentID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) FindExpired(db *gorm.DB, now time.Time, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := db.Preload("EndUser").Preload("Project").
		Where("status = ? AND end_at <= ?", models.SubscriptionStatusActive, now).
		Order("end_at ASC").Limit(limit).
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) MarkExpired(db *gorm.DB, id uint) (bool, error) {
	result := db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, models.SubscriptionStatusActive).
		Update("status", models.SubscriptionStatusExpired)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
