package models

// User - создатель (владелец канала). Баланс хранится в центах.
type User struct {
	BaseModel
	TelegramID    int64        `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Name          string       `gorm:"size:255" json:"name"`
	Username      string       `gorm:"size:255" json:"username"`
	Language      string       `gorm:"size:8;default:'en'" json:"language"`
	BalanceCents  int64        `gorm:"not null;default:0" json:"balance_cents"`
	PayoutMethod  PayoutMethod `gorm:"type:varchar(20)" json:"payout_method,omitempty"`
	PayoutDetails string       `gorm:"type:text" json:"payout_details,omitempty"`

	// Relations
	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) HasPayoutSettings() bool {
	return u.PayoutMethod != "" && u.PayoutDetails != ""
}
