package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"
	"fanstero_backend/pkg/apperrors"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gorm.io/gorm"
)

const callbackBuy = "buy:"

// Handlers contains all bot command handlers
type Handlers struct {
	db           *gorm.DB
	services     *services.ServiceContainer
	botUsername  string
	dashboardURL string
	pending      *pendingConnections
}

func NewHandlers(db *gorm.DB, container *services.ServiceContainer, botUsername, dashboardURL string) *Handlers {
	return &Handlers{
		db:           db,
		services:     container,
		botUsername:  botUsername,
		dashboardURL: dashboardURL,
		pending:      newPendingConnections(),
	}
}

// Start handles /start with optional project_<id> or connect_<code> payload
func (h *Handlers) Start(ctx context.Context, api API, update *tgmodels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	ctx = logger.WithTelegramID(ctx, msg.From.ID)

	payload := ParseStartPayload(msg.Text)
	switch payload.Kind {
	case StartProject:
		h.showPlans(ctx, api, msg.Chat.ID, payload.ProjectID)
	case StartConnect:
		h.beginConnect(ctx, api, msg, payload.Code)
	default:
		h.send(ctx, api, msg.Chat.ID, textWelcome, nil)
	}
}

func (h *Handlers) showPlans(ctx context.Context, api API, chatID int64, projectID uint) {
	project, err := h.services.ProjectService.Get(ctx, h.db, projectID)
	if err != nil || !project.IsConnected() || !project.Active {
		h.send(ctx, api, chatID, textProjectMissing, nil)
		return
	}

	plans, err := h.services.PlanService.ListActiveByProject(ctx, h.db, projectID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to list plans", err, "project_id", projectID)
		h.send(ctx, api, chatID, textSomethingWrong, nil)
		return
	}
	if len(plans) == 0 {
		h.send(ctx, api, chatID, textNoPlans, nil)
		return
	}

	keyboard := &tgmodels.InlineKeyboardMarkup{}
	for i := range plans {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{{
			Text:         planLabel(&plans[i]),
			CallbackData: callbackBuy + strconv.FormatUint(uint64(plans[i].ID), 10),
		}})
	}
	h.send(ctx, api, chatID, fmt.Sprintf(textChoosePlan, html.EscapeString(project.Title)), keyboard)
}

func planLabel(plan *models.SubscriptionPlan) string {
	if plan.IsFree() {
		return fmt.Sprintf("%s - %s, %d days", plan.Name, buttonFree, plan.DurationDays)
	}
	return fmt.Sprintf("%s - %s %s / %d days", plan.Name, plan.Price.StringFixed(2), plan.Currency, plan.DurationDays)
}

// beginConnect регистрирует создателя и запоминает код до события my_chat_member
func (h *Handlers) beginConnect(ctx context.Context, api API, msg *tgmodels.Message, code string) {
	if _, err := h.registerCreator(ctx, msg.From); err != nil {
		logger.CtxWithError(ctx, "Failed to register creator", err)
		h.send(ctx, api, msg.Chat.ID, textSomethingWrong, nil)
		return
	}

	h.pending.Put(msg.From.ID, code)
	h.send(ctx, api, msg.Chat.ID, textConnectPrompt, urlKeyboard(buttonAddBot, AddToChannelLink(h.botUsername)))
}

func (h *Handlers) registerCreator(ctx context.Context, from *tgmodels.User) (*models.User, error) {
	user, _, err := h.services.UserService.CreateOrGet(ctx, h.db, &dto.CreateUserRequest{
		TelegramID: from.ID,
		Name:       strings.TrimSpace(from.FirstName + " " + from.LastName),
		Username:   from.Username,
		Language:   from.LanguageCode,
	})
	return user, err
}

// Creator handles /creator
func (h *Handlers) Creator(ctx context.Context, api API, update *tgmodels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	ctx = logger.WithTelegramID(ctx, msg.From.ID)

	if _, err := h.registerCreator(ctx, msg.From); err != nil {
		logger.CtxWithError(ctx, "Failed to register creator", err)
		h.send(ctx, api, msg.Chat.ID, textSomethingWrong, nil)
		return
	}

	projects, err := h.services.ProjectService.ListByOwnerTelegramID(ctx, h.db, msg.From.ID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to list projects", err)
		h.send(ctx, api, msg.Chat.ID, textSomethingWrong, nil)
		return
	}

	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "• <b>%s</b> - %s", html.EscapeString(p.Title), p.Status)
		if p.IsConnected() {
			fmt.Fprintf(&b, "\n  %s", ProjectLink(h.botUsername, p.ID))
		}
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(textCreatorHelp)

	var markup tgmodels.ReplyMarkup
	if h.dashboardURL != "" {
		markup = urlKeyboard(buttonDashboard, h.dashboardURL)
	}
	h.send(ctx, api, msg.Chat.ID, b.String(), markup)
}

// Subscriber handles /subscriber
func (h *Handlers) Subscriber(ctx context.Context, api API, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	h.send(ctx, api, update.Message.Chat.ID, textSubscriberHelp, nil)
}

// My handles /my - active subscriptions of the sender
func (h *Handlers) My(ctx context.Context, api API, update *tgmodels.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	ctx = logger.WithTelegramID(ctx, msg.From.ID)

	subs, err := h.services.SubscriptionService.ListActiveForSubscriber(ctx, h.db, msg.From.ID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to list subscriptions", err)
		h.send(ctx, api, msg.Chat.ID, textSomethingWrong, nil)
		return
	}
	if len(subs) == 0 {
		h.send(ctx, api, msg.Chat.ID, textNoSubscriptions, nil)
		return
	}

	var b strings.Builder
	for _, s := range subs {
		title := fmt.Sprintf("#%d", s.ProjectID)
		if s.Project != nil {
			title = s.Project.Title
		}
		plan := ""
		if s.Plan != nil {
			plan = " (" + html.EscapeString(s.Plan.Name) + ")"
		}
		fmt.Fprintf(&b, "• <b>%s</b>%s until %s\n", html.EscapeString(title), plan, s.EndAt.UTC().Format(dateLayout))
	}
	h.send(ctx, api, msg.Chat.ID, b.String(), nil)
}

// Buy handles the buy:<plan_id> callback: free plans are granted at once,
// paid plans get a checkout link
func (h *Handlers) Buy(ctx context.Context, api API, update *tgmodels.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	ctx = logger.WithTelegramID(ctx, cq.From.ID)

	if _, err := api.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID}); err != nil {
		logger.CtxWarn(ctx, "Failed to answer callback", "error", err.Error())
	}

	chatID := cq.From.ID
	planID, err := strconv.ParseUint(strings.TrimPrefix(cq.Data, callbackBuy), 10, 64)
	if err != nil || planID == 0 {
		return
	}

	plan, err := h.services.PlanService.Get(ctx, h.db, uint(planID))
	if err != nil {
		h.send(ctx, api, chatID, userMessage(err), nil)
		return
	}

	if plan.IsFree() {
		// инвайт-ссылку отправит Notifier после выдачи подписки
		_, err := h.services.SubscriptionService.CreateFromPlan(ctx, h.db, &dto.CreateSubscriptionFromPlanRequest{
			TelegramID: cq.From.ID,
			Language:   cq.From.LanguageCode,
			PlanID:     plan.ID,
		})
		if err != nil {
			logger.CtxWarn(ctx, "Free subscription refused", "plan_id", plan.ID, "error", err.Error())
			h.send(ctx, api, chatID, userMessage(err), nil)
		}
		return
	}

	checkout, err := h.services.PaymentService.CreateCheckout(ctx, h.db, &dto.CreateCheckoutRequest{
		PlanID:     plan.ID,
		TelegramID: cq.From.ID,
		Language:   cq.From.LanguageCode,
	})
	if err != nil {
		logger.CtxWarn(ctx, "Checkout refused", "plan_id", plan.ID, "error", err.Error())
		h.send(ctx, api, chatID, userMessage(err), nil)
		return
	}

	amount := services.FormatCents(checkout.AmountCents)
	h.send(ctx, api, chatID,
		fmt.Sprintf(textPayPrompt, html.EscapeString(plan.Name), amount, checkout.Currency, plan.DurationDays),
		urlKeyboard(fmt.Sprintf(buttonPay, amount, checkout.Currency), checkout.CheckoutURL))
}

// ChatMember handles my_chat_member: the bot became an administrator of a channel
func (h *Handlers) ChatMember(ctx context.Context, api API, update *tgmodels.Update) {
	upd := update.MyChatMember
	if upd == nil || upd.Chat.Type != chatTypeChannel {
		return
	}
	if upd.NewChatMember.Type != tgmodels.ChatMemberTypeAdministrator {
		return
	}
	from := upd.From.ID
	ctx = logger.WithTelegramID(ctx, from)
	title := html.EscapeString(upd.Chat.Title)

	admin := upd.NewChatMember.Administrator
	if admin == nil || !admin.CanInviteUsers || !admin.CanRestrictMembers {
		h.send(ctx, api, from, fmt.Sprintf(textConnectBadRights, title), nil)
		return
	}

	code, ok := h.pending.Take(from)
	if !ok {
		h.send(ctx, api, from, fmt.Sprintf(textConnectUnknown, title), nil)
		return
	}

	// ответ создателю отправляет Notifier после привязки
	_, err := h.services.ProjectService.ConnectChannel(ctx, h.db, &dto.ConnectChannelRequest{
		ConnectionCode:    code,
		TelegramChannelID: upd.Chat.ID,
		ChannelTitle:      upd.Chat.Title,
		ChannelUsername:   upd.Chat.Username,
	})
	if err != nil {
		logger.CtxWarn(ctx, "Channel connect refused", "channel_id", upd.Chat.ID, "error", err.Error())
		h.send(ctx, api, from, fmt.Sprintf(textConnectFailed, title, html.EscapeString(userMessage(err))), nil)
		return
	}
	logger.CtxInfo(ctx, "Channel connected via bot", "channel_id", upd.Chat.ID)
}

func (h *Handlers) send(ctx context.Context, api API, chatID int64, text string, markup tgmodels.ReplyMarkup) {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := api.SendMessage(ctx, params); err != nil {
		logger.CtxWithError(ctx, "Failed to send message", err, "chat_id", chatID)
	}
}

// userMessage - текст ошибки, который можно показать пользователю
func userMessage(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < http.StatusInternalServerError {
		return appErr.Message
	}
	return textSomethingWrong
}
