package dto

import "github.com/shopspring/decimal"

type CreatePlanRequest struct {
	ProjectID    uint            `json:"project_id" validate:"required" example:"1"`
	Name         string          `json:"name" validate:"required,max=255" example:"Monthly"`
	Price        decimal.Decimal `json:"price" validate:"required,is-decimal-price" swaggertype:"string" example:"9.99"`
	Currency     string          `json:"currency" validate:"omitempty,is-currency" example:"EUR"`
	DurationDays int             `json:"duration_days" validate:"required,gt=0,lte=3650" example:"30"`
}

type UpdatePlanRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=255"`
	Price        *decimal.Decimal `json:"price" validate:"omitempty,is-decimal-price" swaggertype:"string"`
	DurationDays *int             `json:"duration_days" validate:"omitempty,gt=0,lte=3650"`
	Active       *bool            `json:"active"`
}
