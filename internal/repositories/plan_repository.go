package repositories

import (
	"errors"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSubscriptionPlanNotFound = errors.New("subscription plan not found")

type PlanRepository interface {
	Create(db *gorm.DB, plan *models.SubscriptionPlan) error
	FindByID(db *gorm.DB, id uint) (*models.SubscriptionPlan, error)
	FindActiveByProject(db *gorm.DB, projectID uint) ([]models.SubscriptionPlan, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
}

type planRepository struct{}

func NewPlanRepository() PlanRepository {
	return &planRepository{}
}

func (r *planRepository) Create(db *gorm.DB, plan *models.SubscriptionPlan) error {
	return db.Create(plan).Error
}

func (r *planRepository) FindByID(db *gorm.DB, id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) FindActiveByProject(db *gorm.DB, projectID uint) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := db.Where("project_id = ? AND active = ?", projectID, true).
		Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	result := db.Model(&models.SubscriptionPlan{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionPlanNotFound
	}
	return nil
}
