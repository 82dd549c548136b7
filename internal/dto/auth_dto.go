package dto

import "strconv"

// TelegramLoginData - параметры Telegram Login Widget (приходят query-строкой)
type TelegramLoginData struct {
	ID        int64  `form:"id" validate:"required"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Username  string `form:"username"`
	PhotoURL  string `form:"photo_url"`
	AuthDate  int64  `form:"auth_date" validate:"required"`
	Hash      string `form:"hash" validate:"required"`
}

// DataCheckFields - все поля кроме hash, в том виде, как их подписал Telegram
func (d *TelegramLoginData) DataCheckFields() map[string]string {
	fields := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	put("id", strconv.FormatInt(d.ID, 10))
	put("first_name", d.FirstName)
	put("last_name", d.LastName)
	put("username", d.Username)
	put("photo_url", d.PhotoURL)
	put("auth_date", strconv.FormatInt(d.AuthDate, 10))
	return fields
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
