package repositories

import (
	"errors"
	"time"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound      = errors.New("payout request not found")
	ErrPayoutStatusChanged = errors.New("payout status changed concurrently")
)

type PayoutRepository interface {
	Create(db *gorm.DB, payout *models.PayoutRequest) error
	FindByID(db *gorm.DB, id uint) (*models.PayoutRequest, error)
	FindByUser(db *gorm.DB, userID uint) ([]models.PayoutRequest, error)
	FindAll(db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, int64, error)
	SumPendingByUser(db *gorm.DB, userID uint) (int64, error)
	// UpdateStatus - условный переход from -> to
	UpdateStatus(db *gorm.DB, id uint, from, to models.PayoutStatus, processedAt *time.Time) error
}

type payoutRepository struct{}

func NewPayoutRepository() PayoutRepository {
	return &payoutRepository{}
}

func (r *payoutRepository) Create(db *gorm.DB, payout *models.PayoutRequest) error {
	return db.Create(payout).Error
}

func (r *payoutRepository) FindByID(db *gorm.DB, id uint) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := db.First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) FindByUser(db *gorm.DB, userID uint) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

func (r *payoutRepository) FindAll(db *gorm.DB, status models.PayoutStatus, limit, offset int) ([]models.PayoutRequest, int64, error) {
	var payouts []models.PayoutRequest
	var total int64

	query := db.Model(&models.PayoutRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&payouts).Error
	return payouts, total, err
}

func (r *payoutRepository) SumPendingByUser(db *gorm.DB, userID uint) (int64, error) {
	var sum int64
	err := db.Model(&models.PayoutRequest{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("user_id = ? AND status IN ?", userID, []models.PayoutStatus{models.PayoutStatusPending, models.PayoutStatusApproved}).
		Scan(&sum).Error
	return sum, err
}

func (r *payoutRepository) UpdateStatus(db *gorm.DB, id uint, from, to models.PayoutStatus, processedAt *time.Time) error {
	fields := map[string]interface{}{"status": to}
	if processedAt != nil {
		fields["processed_at"] = *processedAt
	}
	result := db.Model(&models.PayoutRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPayoutStatusChanged
	}
	return nil
}
