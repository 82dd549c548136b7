package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscriptionGranted(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, "fanstero_bot", "")
	endAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	err := n.NotifySubscriptionGranted(context.Background(), &services.SubscriptionGrant{
		SubscriptionID:       11,
		SubscriberTelegramID: 555,
		ChannelID:            -100123,
		ProjectTitle:         "Cats & dogs",
		PlanName:             "Monthly",
		EndAt:                endAt,
	})
	require.NoError(t, err)

	require.Len(t, api.invites, 1)
	invite := api.invites[0]
	assert.Equal(t, int64(-100123), invite.ChatID)
	assert.Equal(t, 1, invite.MemberLimit, "ссылка одноразовая")
	assert.Equal(t, int(endAt.Unix()), invite.ExpireDate)

	msg := api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, int64(555), msg.ChatID)
	assert.Contains(t, msg.Text, "Cats &amp; dogs")
	assert.Contains(t, msg.Text, "2026-03-01")
	assert.Equal(t, testInviteLink, keyboard(t, msg).InlineKeyboard[0][0].URL)
}

func TestNotifier_InviteFailure(t *testing.T) {
	api := &fakeAPI{inviteErr: errors.New("bot is not admin")}
	n := NewNotifier(api, "fanstero_bot", "")

	err := n.NotifySubscriptionGranted(context.Background(), &services.SubscriptionGrant{
		SubscriptionID: 1, SubscriberTelegramID: 2, ChannelID: -3, EndAt: time.Now(),
	})
	assert.Error(t, err)
	assert.Empty(t, api.messages, "без ссылки сообщение не отправляется")
}

func TestNotifier_CreatorSale(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, "fanstero_bot", "")

	require.NoError(t, n.NotifyCreatorSale(context.Background(), &services.SaleNotice{
		CreatorTelegramID: 900,
		ProjectTitle:      "Club",
		PlanName:          "Monthly",
		CreditedCents:     900,
		Currency:          "EUR",
	}))

	msg := api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, int64(900), msg.ChatID)
	assert.Contains(t, msg.Text, "9.00 EUR")
}

func TestNotifier_SubscriptionExpired(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, "fanstero_bot", "")
	channelID := int64(-100777)

	sub := &models.Subscription{
		EndUser: &models.EndUser{TelegramID: 321},
		Project: &models.Project{Title: "Club", TelegramChannelID: &channelID},
	}
	require.NoError(t, n.NotifySubscriptionExpired(context.Background(), sub))

	require.Len(t, api.bans, 1)
	assert.Equal(t, channelID, api.bans[0].ChatID)
	assert.Equal(t, int64(321), api.bans[0].UserID)
	require.Len(t, api.unbans, 1)
	assert.True(t, api.unbans[0].OnlyIfBanned, "после unban пользователь может вернуться")
	assert.Len(t, api.messagesTo(321), 1)

	t.Run("без канала ничего не делает", func(t *testing.T) {
		api := &fakeAPI{}
		n := NewNotifier(api, "fanstero_bot", "")
		require.NoError(t, n.NotifySubscriptionExpired(context.Background(), &models.Subscription{
			EndUser: &models.EndUser{TelegramID: 1},
			Project: &models.Project{Title: "Pending"},
		}))
		assert.Empty(t, api.bans)
		assert.Empty(t, api.messages)
	})
}

func TestNotifier_ChannelConnected(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, "fanstero_bot", "https://app.example.test")
	project := &models.Project{Title: "Club"}
	project.ID = 5

	require.NoError(t, n.NotifyChannelConnected(context.Background(), 42, project))

	msg := api.lastMessage()
	require.NotNil(t, msg)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "https://t.me/fanstero_bot?start=project_5")
	assert.Equal(t, "https://app.example.test", keyboard(t, msg).InlineKeyboard[0][0].URL)
}
