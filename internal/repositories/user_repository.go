package repositories

import (
	"errors"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByTelegramID(db *gorm.DB, telegramID int64) (*models.User, error)
	// FirstOrCreate находит создателя по telegram_id или создает нового
	FirstOrCreate(db *gorm.DB, user *models.User) (created bool, err error)
	UpdateProfile(db *gorm.DB, id uint, name, username string) error
	UpdatePayoutSettings(db *gorm.DB, id uint, method models.PayoutMethod, details string) error

	// CreditBalance увеличивает баланс (только из сверки платежа)
	CreditBalance(db *gorm.DB, id uint, cents int64) error
	// DebitBalance списывает сумму, если баланса хватает; иначе ErrInsufficientBalance
	DebitBalance(db *gorm.DB, id uint, cents int64) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByTelegramID(db *gorm.DB, telegramID int64) (*models.User, error) {
	var user models.User
	if err := db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FirstOrCreate(db *gorm.DB, user *models.User) (bool, error) {
	existing, err := r.FindByTelegramID(db, user.TelegramID)
	if err == nil {
		*user = *existing
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}
	if err := db.Create(user).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) UpdateProfile(db *gorm.DB, id uint, name, username string) error {
	return db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "username": username}).Error
}

func (r *userRepository) UpdatePayoutSettings(db *gorm.DB, id uint, method models.PayoutMethod, details string) error {
	result := db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"payout_method": method, "payout_details": details})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CreditBalance(db *gorm.DB, id uint, cents int64) error {
	result := db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", cents))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) DebitBalance(db *gorm.DB, id uint, cents int64) error {
	result := db.Model(&models.User{}).
		Where("id = ? AND balance_cents >= ?", id, cents).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents - ?", cents))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
