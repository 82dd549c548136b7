package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/internal/services"
	"fanstero_backend/internal/services/billing"
	"fanstero_backend/test/helpers"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"gorm.io/gorm"
)

const testInviteLink = "https://t.me/+invite-test"

// fakeAPI запоминает все вызовы Bot API
type fakeAPI struct {
	mu        sync.Mutex
	messages  []*tgbot.SendMessageParams
	invites   []*tgbot.CreateChatInviteLinkParams
	bans      []*tgbot.BanChatMemberParams
	unbans    []*tgbot.UnbanChatMemberParams
	answers   []*tgbot.AnswerCallbackQueryParams
	inviteErr error
	sendErr   error
}

func (f *fakeAPI) SendMessage(_ context.Context, p *tgbot.SendMessageParams) (*tgmodels.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.messages = append(f.messages, p)
	return &tgmodels.Message{ID: len(f.messages)}, nil
}

func (f *fakeAPI) CreateChatInviteLink(_ context.Context, p *tgbot.CreateChatInviteLinkParams) (*tgmodels.ChatInviteLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inviteErr != nil {
		return nil, f.inviteErr
	}
	f.invites = append(f.invites, p)
	return &tgmodels.ChatInviteLink{InviteLink: testInviteLink}, nil
}

func (f *fakeAPI) BanChatMember(_ context.Context, p *tgbot.BanChatMemberParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bans = append(f.bans, p)
	return true, nil
}

func (f *fakeAPI) UnbanChatMember(_ context.Context, p *tgbot.UnbanChatMemberParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbans = append(f.unbans, p)
	return true, nil
}

func (f *fakeAPI) AnswerCallbackQuery(_ context.Context, p *tgbot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, p)
	return true, nil
}

func (f *fakeAPI) lastMessage() *tgbot.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return nil
	}
	return f.messages[len(f.messages)-1]
}

func (f *fakeAPI) messagesTo(chatID int64) []*tgbot.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*tgbot.SendMessageParams
	for _, m := range f.messages {
		if id, ok := m.ChatID.(int64); ok && id == chatID {
			out = append(out, m)
		}
	}
	return out
}

type botEnv struct {
	db       *gorm.DB
	api      *fakeAPI
	provider *billing.MockProvider
	svc      *services.ServiceContainer
	handlers *Handlers
}

func newBotEnv(t *testing.T) *botEnv {
	t.Helper()

	db := helpers.NewTestDB(t)
	api := &fakeAPI{}
	provider := billing.NewMockProvider("whsec_test")
	notifier := NewNotifier(api, "fanstero_bot", "https://app.example.test")
	settings := services.BillingSettings{PlatformFeePercent: 10, MinPayoutCents: 2000, Currency: "EUR"}

	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	planRepo := repositories.NewPlanRepository()
	endUserRepo := repositories.NewEndUserRepository()
	subRepo := repositories.NewSubscriptionRepository()
	paymentRepo := repositories.NewPaymentRepository()
	payoutRepo := repositories.NewPayoutRepository()

	userService := services.NewUserService(userRepo, paymentRepo, payoutRepo, settings)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier, "fanstero_bot")
	subscriptionService := services.NewSubscriptionService(subRepo, endUserRepo, planRepo, projectRepo, projectService, notifier)

	svc := &services.ServiceContainer{
		UserService:         userService,
		AuthService:         services.NewAuthService(userService, auth.NewTokenManager("jwt-secret", time.Hour), "123456:TEST"),
		ProjectService:      projectService,
		PlanService:         services.NewPlanService(planRepo, projectService, "EUR"),
		SubscriptionService: subscriptionService,
		PaymentService: services.NewPaymentService(
			paymentRepo, planRepo, projectRepo, endUserRepo, userRepo,
			subscriptionService, provider, notifier,
			services.CheckoutURLs{SuccessURL: "https://example.test/ok", CancelURL: "https://example.test/cancel"},
			settings.PlatformFeePercent,
		),
		PayoutService: services.NewPayoutService(payoutRepo, userRepo, settings),
		Provider:      provider,
		Notifier:      notifier,
	}

	return &botEnv{
		db:       db,
		api:      api,
		provider: provider,
		svc:      svc,
		handlers: NewHandlers(db, svc, "fanstero_bot", "https://app.example.test"),
	}
}

func textUpdate(fromID int64, text string) *tgmodels.Update {
	return &tgmodels.Update{
		Message: &tgmodels.Message{
			ID:   1,
			From: &tgmodels.User{ID: fromID, FirstName: "Anna", Username: "anna", LanguageCode: "en"},
			Chat: tgmodels.Chat{ID: fromID, Type: chatTypePrivate},
			Text: text,
		},
	}
}

func callbackUpdate(fromID int64, data string) *tgmodels.Update {
	return &tgmodels.Update{
		CallbackQuery: &tgmodels.CallbackQuery{
			ID:   "cb-1",
			From: tgmodels.User{ID: fromID, FirstName: "Sub", LanguageCode: "de"},
			Data: data,
		},
	}
}

func adminRights() tgmodels.ChatMember {
	return tgmodels.ChatMember{
		Type: tgmodels.ChatMemberTypeAdministrator,
		Administrator: &tgmodels.ChatMemberAdministrator{
			CanInviteUsers:     true,
			CanRestrictMembers: true,
		},
	}
}

func chatMemberUpdate(fromID, channelID int64, member tgmodels.ChatMember) *tgmodels.Update {
	return &tgmodels.Update{
		MyChatMember: &tgmodels.ChatMemberUpdated{
			Chat:          tgmodels.Chat{ID: channelID, Type: chatTypeChannel, Title: "Secret club", Username: "secret_club"},
			From:          tgmodels.User{ID: fromID},
			NewChatMember: member,
		},
	}
}

func keyboard(t *testing.T, p *tgbot.SendMessageParams) *tgmodels.InlineKeyboardMarkup {
	t.Helper()
	kb, ok := p.ReplyMarkup.(*tgmodels.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard, got %T", p.ReplyMarkup)
	}
	return kb
}
