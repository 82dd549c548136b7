package services_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/dto"
	"fanstero_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrGet_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, created, err := env.svc.UserService.CreateOrGet(ctx, env.db, &dto.CreateUserRequest{TelegramID: 5001, Name: "Anna"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "en", first.Language)

	second, created, err := env.svc.UserService.CreateOrGet(ctx, env.db, &dto.CreateUserRequest{TelegramID: 5001, Name: "Anna K", Username: "anna"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Anna K", second.Name)

	found, err := env.svc.UserService.GetByTelegramID(ctx, env.db, 5001)
	require.NoError(t, err)
	assert.Equal(t, "anna", found.Username)

	_, err = env.svc.UserService.GetByTelegramID(ctx, env.db, 1)
	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}

func signedLogin(id int64, authDate time.Time) *dto.TelegramLoginData {
	data := &dto.TelegramLoginData{
		ID:        id,
		FirstName: "Ivan",
		Username:  "ivan",
		AuthDate:  authDate.Unix(),
	}
	data.Hash = auth.SignTelegramLogin(testBotToken, data.DataCheckFields())
	return data
}

func TestLoginWithTelegram(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.svc.AuthService.LoginWithTelegram(ctx, env.db, signedLogin(6001, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(6001), user.TelegramID)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	claims, err := env.svc.AuthService.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, int64(6001), claims.TelegramID)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)
}

func TestLoginWithTelegram_Rejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tampered := signedLogin(6002, time.Now())
	tampered.Username = "someone_else"
	_, _, err := env.svc.AuthService.LoginWithTelegram(ctx, env.db, tampered)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTelegramAuth))

	stale := signedLogin(6002, time.Now().Add(-48*time.Hour))
	_, _, err = env.svc.AuthService.LoginWithTelegram(ctx, env.db, stale)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTelegramAuth))

	_, err = env.svc.AuthService.ParseToken("not-a-jwt")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
