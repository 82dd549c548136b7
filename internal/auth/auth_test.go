package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botToken = "123456:test-bot-token"

func loginFields() map[string]string {
	return map[string]string{
		"id":         "42",
		"first_name": "Anna",
		"username":   "anna",
		"auth_date":  "1700000000",
	}
}

func TestTelegramDataCheckString(t *testing.T) {
	got := TelegramDataCheckString(map[string]string{
		"username":  "anna",
		"id":        "42",
		"hash":      "ignored",
		"auth_date": "1700000000",
	})
	assert.Equal(t, "auth_date=1700000000\nid=42\nusername=anna", got)
}

func TestVerifyTelegramLogin(t *testing.T) {
	authDate := time.Unix(1700000000, 0)
	now := authDate.Add(time.Minute)
	fields := loginFields()
	hash := SignTelegramLogin(botToken, fields)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, VerifyTelegramLogin(botToken, fields, hash, authDate, now))
	})

	t.Run("hash in upper case", func(t *testing.T) {
		assert.NoError(t, VerifyTelegramLogin(botToken, fields, strings.ToUpper(hash), authDate, now))
	})

	t.Run("tampered field", func(t *testing.T) {
		tampered := loginFields()
		tampered["id"] = "43"
		assert.ErrorIs(t, VerifyTelegramLogin(botToken, tampered, hash, authDate, now), ErrTelegramHashMismatch)
	})

	t.Run("other bot token", func(t *testing.T) {
		assert.ErrorIs(t, VerifyTelegramLogin("999:other", fields, hash, authDate, now), ErrTelegramHashMismatch)
	})

	t.Run("outdated", func(t *testing.T) {
		late := authDate.Add(TelegramLoginMaxAge + time.Second)
		assert.ErrorIs(t, VerifyTelegramLogin(botToken, fields, hash, authDate, late), ErrTelegramAuthExpired)
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(7, 5001)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, int64(5001), claims.TelegramID)
	assert.Equal(t, time.Hour, tm.TTL())
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	other, err := NewTokenManager("other-secret", time.Hour).GenerateToken(7, 5001)
	require.NoError(t, err)
	_, err = tm.ParseToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenManager("secret", -time.Minute).GenerateToken(7, 5001)
	require.NoError(t, err)
	_, err = tm.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// subject пустой - токен без пользователя
	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{TelegramID: 1})
	signed, err := noSubject.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
