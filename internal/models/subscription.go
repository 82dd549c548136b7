package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionPlan struct {
	BaseModel
	ProjectID    uint            `gorm:"not null;index" json:"project_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency     string          `gorm:"size:3;default:'EUR'" json:"currency"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Active       bool            `gorm:"default:true" json:"active"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// PriceCents - цена в минимальных единицах валюты
func (p *SubscriptionPlan) PriceCents() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

func (p *SubscriptionPlan) IsFree() bool {
	return p.Price.IsZero()
}

type EndUser struct {
	BaseModel
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Language   string `gorm:"size:8;default:'en'" json:"language"`
}

type Subscription struct {
	BaseModel
	EndUserID uint               `gorm:"not null;index" json:"end_user_id"`
	ProjectID uint               `gorm:"not null;index" json:"project_id"`
	PlanID    uint               `gorm:"not null;index" json:"plan_id"`
	PaymentID *uint              `gorm:"uniqueIndex" json:"payment_id,omitempty"`
	StartAt   time.Time          `gorm:"not null" json:"start_at"`
	EndAt     time.Time          `gorm:"not null;index" json:"end_at"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	AutoRenew bool               `gorm:"default:false" json:"auto_renew"`

	// Relations
	EndUser *EndUser          `gorm:"foreignKey:EndUserID" json:"end_user,omitempty"`
	Plan    *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Project *Project          `gorm:"foreignKey:ProjectID" json:"-"`
}

func (s *Subscription) IsActiveAt(t time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndAt.After(t)
}
