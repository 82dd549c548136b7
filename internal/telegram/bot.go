// Package telegram - бот платформы: диалоги с создателями и подписчиками,
// инвайт-ссылки и удаление из каналов
package telegram

import (
	"context"
	"fmt"

	"fanstero_backend/internal/logger"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// API - то подмножество *tgbot.Bot, которым пользуются уведомления и хэндлеры
type API interface {
	SendMessage(ctx context.Context, params *tgbot.SendMessageParams) (*models.Message, error)
	CreateChatInviteLink(ctx context.Context, params *tgbot.CreateChatInviteLinkParams) (*models.ChatInviteLink, error)
	BanChatMember(ctx context.Context, params *tgbot.BanChatMemberParams) (bool, error)
	UnbanChatMember(ctx context.Context, params *tgbot.UnbanChatMemberParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *tgbot.AnswerCallbackQueryParams) (bool, error)
}

var _ API = (*tgbot.Bot)(nil)

// Bot wraps the Telegram bot
type Bot struct {
	bot *tgbot.Bot
}

// NewBot создает бота; хэндлеры регистрируются через Router
func NewBot(token string) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(defaultHandler),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates{
			"message",
			"callback_query",
			"my_chat_member",
		}),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info("Telegram bot created successfully")
	return &Bot{bot: bot}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Start - long polling до отмены ctx (блокирует)
func (b *Bot) Start(ctx context.Context) {
	logger.Info("Starting Telegram bot...")
	b.bot.Start(ctx)
	logger.Info("Telegram bot stopped")
}

// значения models.Chat.Type
const (
	chatTypePrivate = "private"
	chatTypeChannel = "channel"
)

// defaultHandler handles messages without commands
func defaultHandler(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.Chat.Type != chatTypePrivate {
		return
	}

	_, _ = bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   textUnknownCommand,
	})
}
