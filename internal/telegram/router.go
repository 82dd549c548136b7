package telegram

import (
	"context"

	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type handlerFunc func(ctx context.Context, api API, update *tgmodels.Update)

// Router registers bot handlers
type Router struct {
	handlers *Handlers
}

func NewRouter(handlers *Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes registers all bot command handlers
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	h := r.handlers

	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, track("start", h.Start))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/creator", tgbot.MatchTypeExact, track("creator", h.Creator))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/subscriber", tgbot.MatchTypeExact, track("subscriber", h.Subscriber))
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/my", tgbot.MatchTypeExact, track("my", h.My))
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, callbackBuy, tgbot.MatchTypePrefix, track("buy", h.Buy))
	bot.RegisterHandlerMatchFunc(isMyChatMember, track("my_chat_member", h.ChatMember))
}

func isMyChatMember(update *tgmodels.Update) bool {
	return update.MyChatMember != nil
}

func track(name string, fn handlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *tgmodels.Update) {
		metrics.BotUpdatesTotal.WithLabelValues(name).Inc()
		fn(ctx, bot, update)
		logger.BotLog(name, senderID(update), nil)
	}
}

func senderID(update *tgmodels.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	case update.MyChatMember != nil:
		return update.MyChatMember.From.ID
	}
	return 0
}
