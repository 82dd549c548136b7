package dto

import "encoding/json"

type CreateProjectRequest struct {
	Title    string          `json:"title" validate:"required,min=1,max=255" example:"My private channel"`
	Username string          `json:"username" validate:"omitempty,max=255" example:"my_channel"`
	Settings json.RawMessage `json:"settings,omitempty" swaggertype:"object"`
}

type UpdateProjectRequest struct {
	Title    *string         `json:"title" validate:"omitempty,min=1,max=255"`
	Active   *bool           `json:"active"`
	Settings json.RawMessage `json:"settings,omitempty" swaggertype:"object"`
}

// ConnectChannelRequest - бот сообщает, что его добавили админом в канал
type ConnectChannelRequest struct {
	ConnectionCode    string `json:"connection_code" validate:"required,max=64"`
	TelegramChannelID int64  `json:"telegram_channel_id" validate:"required"`
	ChannelTitle      string `json:"channel_title" validate:"max=255"`
	ChannelUsername   string `json:"channel_username" validate:"max=255"`
}

type ConnectLinkResponse struct {
	ProjectID      uint   `json:"project_id"`
	ConnectionCode string `json:"connection_code"`
	URL            string `json:"url"`
}
