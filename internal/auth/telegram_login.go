package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrTelegramHashMismatch = errors.New("telegram login hash mismatch")
	ErrTelegramAuthExpired  = errors.New("telegram login data is outdated")
)

// TelegramLoginMaxAge - сколько живут данные Login Widget
const TelegramLoginMaxAge = 24 * time.Hour

// TelegramDataCheckString собирает строку "key=value\n..." в алфавитном порядке ключей
func TelegramDataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	return strings.Join(parts, "\n")
}

// SignTelegramLogin считает hash так же, как Telegram: HMAC-SHA256 с ключом SHA256(bot_token)
func SignTelegramLogin(botToken string, fields map[string]string) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(TelegramDataCheckString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyTelegramLogin проверяет подпись и свежесть auth_date
func VerifyTelegramLogin(botToken string, fields map[string]string, hash string, authDate time.Time, now time.Time) error {
	expected := SignTelegramLogin(botToken, fields)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(hash))) {
		return ErrTelegramHashMismatch
	}
	if now.Sub(authDate) > TelegramLoginMaxAge {
		return ErrTelegramAuthExpired
	}
	return nil
}
