package services

import (
	"context"
	"strings"
	"time"

	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	// LoginWithTelegram проверяет данные Login Widget, регистрирует создателя и выдает JWT
	LoginWithTelegram(ctx context.Context, db *gorm.DB, data *dto.TelegramLoginData) (*models.User, *dto.AuthResponse, error)
	ParseToken(token string) (*auth.Claims, error)
}

type authService struct {
	userService UserService
	tokens      *auth.TokenManager
	botToken    string
	now         func() time.Time
}

func NewAuthService(userService UserService, tokens *auth.TokenManager, botToken string) AuthService {
	return &authService{
		userService: userService,
		tokens:      tokens,
		botToken:    botToken,
		now:         time.Now,
	}
}

func (s *authService) LoginWithTelegram(ctx context.Context, db *gorm.DB, data *dto.TelegramLoginData) (*models.User, *dto.AuthResponse, error) {
	if s.botToken == "" {
		return nil, nil, apperrors.ErrInvalidOperation("auth", "Telegram login is not configured")
	}

	err := auth.VerifyTelegramLogin(s.botToken, data.DataCheckFields(), data.Hash, time.Unix(data.AuthDate, 0), s.now())
	if err != nil {
		logger.CtxWarn(ctx, "Telegram login rejected", "telegram_id", data.ID, "reason", err.Error())
		return nil, nil, apperrors.ErrInvalidTelegramAuth.WithError(err)
	}

	name := strings.TrimSpace(data.FirstName + " " + data.LastName)
	user, _, err := s.userService.CreateOrGet(ctx, db, &dto.CreateUserRequest{
		TelegramID: data.ID,
		Name:       name,
		Username:   data.Username,
	})
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.TelegramID)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	return user, &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) ParseToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
