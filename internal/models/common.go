package models

import (
	"time"
)

type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AllModels - список моделей для AutoMigrate (dev-режим и тесты)
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&SubscriptionPlan{},
		&EndUser{},
		&Subscription{},
		&Payment{},
		&PayoutRequest{},
	}
}
