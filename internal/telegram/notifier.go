package telegram

import (
	"context"
	"fmt"
	"html"

	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// Notifier доставляет события оплаты и подписок в Telegram
type Notifier struct {
	api          API
	botUsername  string
	dashboardURL string
}

var _ services.Notifier = (*Notifier)(nil)

func NewNotifier(api API, botUsername, dashboardURL string) *Notifier {
	return &Notifier{api: api, botUsername: botUsername, dashboardURL: dashboardURL}
}

// NotifySubscriptionGranted выпускает одноразовую инвайт-ссылку до конца периода
// и отправляет ее подписчику
func (n *Notifier) NotifySubscriptionGranted(ctx context.Context, grant *services.SubscriptionGrant) error {
	link, err := n.api.CreateChatInviteLink(ctx, &tgbot.CreateChatInviteLinkParams{
		ChatID:      grant.ChannelID,
		Name:        fmt.Sprintf("sub-%d", grant.SubscriptionID),
		ExpireDate:  int(grant.EndAt.Unix()),
		MemberLimit: 1,
	})
	if err != nil {
		return fmt.Errorf("create invite link for channel %d: %w", grant.ChannelID, err)
	}

	_, err = n.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: grant.SubscriberTelegramID,
		Text: fmt.Sprintf(textGranted,
			html.EscapeString(grant.ProjectTitle),
			html.EscapeString(grant.PlanName),
			grant.EndAt.UTC().Format(dateLayout)),
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: urlKeyboard(buttonJoin, link.InviteLink),
	})
	if err != nil {
		return fmt.Errorf("send invite to %d: %w", grant.SubscriberTelegramID, err)
	}

	logger.CtxInfo(ctx, "Invite link sent",
		"subscription_id", grant.SubscriptionID,
		"channel_id", grant.ChannelID)
	return nil
}

func (n *Notifier) NotifyCreatorSale(ctx context.Context, sale *services.SaleNotice) error {
	_, err := n.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: sale.CreatorTelegramID,
		Text: fmt.Sprintf(textSale,
			html.EscapeString(sale.ProjectTitle),
			html.EscapeString(sale.PlanName),
			services.FormatCents(sale.CreditedCents),
			sale.Currency),
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send sale notice to %d: %w", sale.CreatorTelegramID, err)
	}
	return nil
}

// NotifySubscriptionExpired удаляет подписчика из канала (ban + unban, чтобы
// он мог вернуться после продления) и сообщает ему об этом
func (n *Notifier) NotifySubscriptionExpired(ctx context.Context, sub *models.Subscription) error {
	if sub.EndUser == nil || sub.Project == nil || sub.Project.TelegramChannelID == nil {
		return nil
	}
	channelID := *sub.Project.TelegramChannelID
	userID := sub.EndUser.TelegramID

	if _, err := n.api.BanChatMember(ctx, &tgbot.BanChatMemberParams{
		ChatID: channelID,
		UserID: userID,
	}); err != nil {
		return fmt.Errorf("remove %d from channel %d: %w", userID, channelID, err)
	}
	if _, err := n.api.UnbanChatMember(ctx, &tgbot.UnbanChatMemberParams{
		ChatID:       channelID,
		UserID:       userID,
		OnlyIfBanned: true,
	}); err != nil {
		return fmt.Errorf("unban %d in channel %d: %w", userID, channelID, err)
	}

	_, err := n.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    userID,
		Text:      fmt.Sprintf(textExpired, html.EscapeString(sub.Project.Title)),
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		// пользователь мог заблокировать бота, из канала он уже удален
		logger.CtxWarn(ctx, "Failed to send expiry notice", "telegram_id", userID, "error", err.Error())
	}
	return nil
}

func (n *Notifier) NotifyChannelConnected(ctx context.Context, creatorTelegramID int64, project *models.Project) error {
	params := &tgbot.SendMessageParams{
		ChatID: creatorTelegramID,
		Text: fmt.Sprintf(textConnected,
			html.EscapeString(project.Title),
			ProjectLink(n.botUsername, project.ID)),
		ParseMode: tgmodels.ParseModeHTML,
	}
	if n.dashboardURL != "" {
		params.ReplyMarkup = urlKeyboard(buttonDashboard, n.dashboardURL)
	}

	if _, err := n.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send connect notice to %d: %w", creatorTelegramID, err)
	}
	return nil
}

func urlKeyboard(text, url string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: text, URL: url}},
		},
	}
}
