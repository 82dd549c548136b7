package repositories

import (
	"errors"
	"time"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// CreatorEarnings - агрегат оплаченных платежей по проектам создателя
type CreatorEarnings struct {
	TotalShareCents int64
	PaidCount       int64
}

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.Payment) error
	FindByID(db *gorm.DB, id uint) (*models.Payment, error)
	FindBySessionID(db *gorm.DB, sessionID string) (*models.Payment, error)

	// MarkPaid - условный переход pending -> paid.
	// false означает, что платеж уже обработан (повторная доставка вебхука).
	MarkPaid(db *gorm.DB, id uint, creatorShare, platformFee int64, paidAt time.Time) (bool, error)
	// MarkFailed - pending -> failed (сессия истекла)
	MarkFailed(db *gorm.DB, id uint) (bool, error)

	EarningsByCreator(db *gorm.DB, userID uint) (*CreatorEarnings, error)
}

type paymentRepository struct{}

func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *models.Payment) error {
	return db.Create(payment).Error
}

func (r *paymentRepository) FindByID(db *gorm.DB, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindBySessionID(db *gorm.DB, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Where("provider_session_id = ?", sessionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) MarkPaid(db *gorm.DB, id uint, creatorShare, platformFee int64, paidAt time.Time) (bool, error) {
	result := db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusPaid,
			"creator_share_cents": creatorShare,
			"platform_fee_cents":  platformFee,
			"paid_at":             paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) MarkFailed(db *gorm.DB, id uint) (bool, error) {
	result := db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) EarningsByCreator(db *gorm.DB, userID uint) (*CreatorEarnings, error) {
	var out CreatorEarnings
	err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(payments.creator_share_cents), 0) AS total_share_cents, COUNT(payments.id) AS paid_count").
		Joins("JOIN projects ON projects.id = payments.project_id").
		Where("projects.user_id = ? AND payments.status = ?", userID, models.PaymentStatusPaid).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
