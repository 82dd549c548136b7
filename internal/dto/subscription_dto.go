package dto

type CreateSubscriptionFromPlanRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required,gt=0"`
	Language   string `json:"language" validate:"omitempty,max=8"`
	PlanID     uint   `json:"plan_id" validate:"required"`
}

type ActiveSubscriptionQuery struct {
	TelegramID int64 `form:"telegram_id" validate:"required,gt=0"`
	ProjectID  uint  `form:"project_id" validate:"required"`
}
