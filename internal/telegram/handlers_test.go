package telegram

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"fanstero_backend/internal/models"
	"fanstero_backend/pkg/apperrors"
	"fanstero_backend/test/helpers"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers_StartPlain(t *testing.T) {
	env := newBotEnv(t)

	env.handlers.Start(context.Background(), env.api, textUpdate(10, "/start"))

	msg := env.api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, textWelcome, msg.Text)
}

func TestHandlers_StartProjectShowsPlans(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)
	paid := helpers.CreatePlan(t, env.db, project, "9.99", 30)
	free := helpers.CreatePlan(t, env.db, project, "0", 7)

	env.handlers.Start(context.Background(), env.api, textUpdate(20, "/start project_"+strconv.Itoa(int(project.ID))))

	msg := env.api.lastMessage()
	require.NotNil(t, msg)
	rows := keyboard(t, msg).InlineKeyboard
	require.Len(t, rows, 2)

	var callbacks []string
	for _, row := range rows {
		callbacks = append(callbacks, row[0].CallbackData)
	}
	assert.ElementsMatch(t, []string{
		callbackBuy + strconv.Itoa(int(paid.ID)),
		callbackBuy + strconv.Itoa(int(free.ID)),
	}, callbacks)
}

func TestHandlers_StartProjectNotConnected(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, 0)

	env.handlers.Start(context.Background(), env.api, textUpdate(20, "/start project_"+strconv.Itoa(int(project.ID))))

	assert.Equal(t, textProjectMissing, env.api.lastMessage().Text)
}

func TestHandlers_ConnectFlow(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, 0)

	env.handlers.Start(context.Background(), env.api, textUpdate(1000, "/start connect_"+project.ConnectionCode))
	msg := env.api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, textConnectPrompt, msg.Text)
	assert.Equal(t, AddToChannelLink("fanstero_bot"), keyboard(t, msg).InlineKeyboard[0][0].URL)

	env.handlers.ChatMember(context.Background(), env.api, chatMemberUpdate(1000, -100900, adminRights()))

	var stored models.Project
	require.NoError(t, env.db.First(&stored, project.ID).Error)
	assert.True(t, stored.IsConnected())
	assert.Equal(t, int64(-100900), *stored.TelegramChannelID)
	assert.Equal(t, "Secret club", stored.Title)

	last := env.api.lastMessage()
	assert.Equal(t, int64(1000), last.ChatID)
	assert.Contains(t, last.Text, ProjectLink("fanstero_bot", project.ID))
}

func TestHandlers_ChatMemberWithoutPendingCode(t *testing.T) {
	env := newBotEnv(t)

	env.handlers.ChatMember(context.Background(), env.api, chatMemberUpdate(77, -100901, adminRights()))

	msg := env.api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, int64(77), msg.ChatID)
	assert.Contains(t, msg.Text, "don't know which project")
}

func TestHandlers_ChatMemberMissingRights(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, 0)
	env.handlers.Start(context.Background(), env.api, textUpdate(1000, "/start connect_"+project.ConnectionCode))

	member := tgmodels.ChatMember{
		Type:          tgmodels.ChatMemberTypeAdministrator,
		Administrator: &tgmodels.ChatMemberAdministrator{CanInviteUsers: true},
	}
	env.handlers.ChatMember(context.Background(), env.api, chatMemberUpdate(1000, -100902, member))

	assert.Contains(t, env.api.lastMessage().Text, "rights")

	// код не потерян: после выдачи прав подключение проходит
	env.handlers.ChatMember(context.Background(), env.api, chatMemberUpdate(1000, -100902, adminRights()))
	var stored models.Project
	require.NoError(t, env.db.First(&stored, project.ID).Error)
	assert.True(t, stored.IsConnected())
}

func TestHandlers_BuyPaidPlan(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)
	plan := helpers.CreatePlan(t, env.db, project, "10.00", 30)

	env.handlers.Buy(context.Background(), env.api, callbackUpdate(30, callbackBuy+strconv.Itoa(int(plan.ID))))

	require.Len(t, env.api.answers, 1)
	msg := env.api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, int64(30), msg.ChatID)
	url := keyboard(t, msg).InlineKeyboard[0][0].URL
	assert.True(t, strings.HasPrefix(url, env.provider.BaseURL), url)

	var payment models.Payment
	require.NoError(t, env.db.Where("plan_id = ?", plan.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, int64(1000), payment.AmountCents)
}

func TestHandlers_BuyFreePlan(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)
	plan := helpers.CreatePlan(t, env.db, project, "0", 7)

	env.handlers.Buy(context.Background(), env.api, callbackUpdate(31, callbackBuy+strconv.Itoa(int(plan.ID))))

	require.Len(t, env.api.invites, 1)
	assert.Equal(t, int64(-100500), env.api.invites[0].ChatID)
	assert.Len(t, env.api.messagesTo(31), 1)

	env.handlers.My(context.Background(), env.api, textUpdate(31, "/my"))
	assert.Contains(t, env.api.lastMessage().Text, project.Title)
}

func TestHandlers_BuyFreePlanTwice(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)
	plan := helpers.CreatePlan(t, env.db, project, "0", 7)
	data := callbackBuy + strconv.Itoa(int(plan.ID))

	env.handlers.Buy(context.Background(), env.api, callbackUpdate(33, data))
	env.handlers.Buy(context.Background(), env.api, callbackUpdate(33, data))

	assert.Len(t, env.api.invites, 1, "вторая ссылка-приглашение не выпускается")
	assert.Equal(t, apperrors.ErrSubscriptionAlreadyActive.Message, env.api.lastMessage().Text)
}

func TestHandlers_BuyInactivePlan(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)
	plan := helpers.CreatePlan(t, env.db, project, "5.00", 30)
	require.NoError(t, env.db.Model(plan).Update("active", false).Error)

	env.handlers.Buy(context.Background(), env.api, callbackUpdate(32, callbackBuy+strconv.Itoa(int(plan.ID))))

	assert.Equal(t, "Plan is not active", env.api.lastMessage().Text)
}

func TestHandlers_MyWithoutSubscriptions(t *testing.T) {
	env := newBotEnv(t)

	env.handlers.My(context.Background(), env.api, textUpdate(40, "/my"))

	assert.Equal(t, textNoSubscriptions, env.api.lastMessage().Text)
}

func TestHandlers_CreatorListsProjects(t *testing.T) {
	env := newBotEnv(t)
	creator := helpers.CreateCreator(t, env.db, 1000)
	project := helpers.CreateProject(t, env.db, creator, -100500)

	env.handlers.Creator(context.Background(), env.api, textUpdate(1000, "/creator"))

	msg := env.api.lastMessage()
	assert.Contains(t, msg.Text, project.Title)
	assert.Contains(t, msg.Text, ProjectLink("fanstero_bot", project.ID))
}
