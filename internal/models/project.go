package models

import (
	"gorm.io/datatypes"
)

type Project struct {
	BaseModel
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	TelegramChannelID *int64         `gorm:"uniqueIndex" json:"telegram_channel_id"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	Username          string         `gorm:"size:255" json:"username,omitempty"`
	ConnectionCode    string         `gorm:"size:64;uniqueIndex;not null" json:"connection_code,omitempty"`
	Status            ProjectStatus  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Active            bool           `gorm:"default:true" json:"active"`
	Settings          datatypes.JSON `json:"settings,omitempty"`

	// Relations
	User  *User              `gorm:"foreignKey:UserID" json:"-"`
	Plans []SubscriptionPlan `gorm:"foreignKey:ProjectID" json:"-"`
}

func (p *Project) IsConnected() bool {
	return p.Status == ProjectStatusConnected && p.TelegramChannelID != nil
}
