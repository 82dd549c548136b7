package models

import "time"

type PayoutRequest struct {
	BaseModel
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	AmountCents   int64        `gorm:"not null" json:"amount_cents"`
	Currency      string       `gorm:"size:3;not null" json:"currency"`
	Status        PayoutStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PayoutMethod  PayoutMethod `gorm:"type:varchar(20)" json:"payout_method"`
	PayoutDetails string       `gorm:"type:text" json:"payout_details"`
	ProcessedAt   *time.Time   `json:"processed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
