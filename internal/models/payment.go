package models

import "time"

const PaymentProviderStripe = "stripe"

// Payment - попытка оплаты через провайдера (Checkout Session)
type Payment struct {
	BaseModel
	EndUserID         uint          `gorm:"not null;index" json:"end_user_id"`
	ProjectID         uint          `gorm:"not null;index" json:"project_id"`
	PlanID            uint          `gorm:"not null;index" json:"plan_id"`
	Provider          string        `gorm:"size:32;not null;default:'stripe'" json:"provider"`
	ProviderSessionID string        `gorm:"size:255;uniqueIndex;not null" json:"provider_session_id"`
	AmountCents       int64         `gorm:"not null" json:"amount_cents"`
	Currency          string        `gorm:"size:3;not null" json:"currency"`
	Status            PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatorShareCents int64         `gorm:"not null;default:0" json:"creator_share_cents"`
	PlatformFeeCents  int64         `gorm:"not null;default:0" json:"platform_fee_cents"`
	PaidAt            *time.Time    `json:"paid_at,omitempty"`

	// Relations
	EndUser *EndUser          `gorm:"foreignKey:EndUserID" json:"-"`
	Plan    *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"-"`
}
