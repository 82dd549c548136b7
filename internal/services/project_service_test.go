package services_test

import (
	"context"
	"errors"
	"testing"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/models"
	"fanstero_backend/pkg/apperrors"
	"fanstero_backend/test/helpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := helpers.CreateCreator(t, env.db, 4001)

	project, err := env.svc.ProjectService.Create(ctx, env.db, owner.ID, &dto.CreateProjectRequest{Title: "  Crypto signals  "})
	require.NoError(t, err)
	assert.Equal(t, "Crypto signals", project.Title)
	assert.Equal(t, models.ProjectStatusPending, project.Status)
	assert.NotEmpty(t, project.ConnectionCode)

	link, err := env.svc.ProjectService.GetConnectLink(ctx, env.db, owner.ID, project.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/fanstero_bot?start=connect_"+project.ConnectionCode, link.URL)

	regenerated, err := env.svc.ProjectService.GetConnectLink(ctx, env.db, owner.ID, project.ID, true)
	require.NoError(t, err)
	assert.NotEqual(t, link.ConnectionCode, regenerated.ConnectionCode)

	_, err = env.svc.ProjectService.ConnectChannel(ctx, env.db, &dto.ConnectChannelRequest{
		ConnectionCode:    link.ConnectionCode,
		TelegramChannelID: -1001,
	})
	assert.True(t, errors.Is(err, apperrors.ErrConnectionCodeNotFound), "старый код больше не действует")

	connected, err := env.svc.ProjectService.ConnectChannel(ctx, env.db, &dto.ConnectChannelRequest{
		ConnectionCode:    "connect_" + regenerated.ConnectionCode,
		TelegramChannelID: -1001,
		ChannelTitle:      "Signals VIP",
	})
	require.NoError(t, err)
	assert.True(t, connected.IsConnected())
	assert.Equal(t, "Signals VIP", connected.Title)
	assert.Equal(t, []uint{project.ID}, env.notifier.connected)

	// повтор того же события - не ошибка
	_, err = env.svc.ProjectService.ConnectChannel(ctx, env.db, &dto.ConnectChannelRequest{
		ConnectionCode:    regenerated.ConnectionCode,
		TelegramChannelID: -1001,
	})
	require.NoError(t, err)

	_, err = env.svc.ProjectService.ConnectChannel(ctx, env.db, &dto.ConnectChannelRequest{
		ConnectionCode:    regenerated.ConnectionCode,
		TelegramChannelID: -2002,
	})
	assert.True(t, errors.Is(err, apperrors.ErrProjectAlreadyConnected))

	_, err = env.svc.ProjectService.GetConnectLink(ctx, env.db, owner.ID, project.ID, false)
	assert.True(t, errors.Is(err, apperrors.ErrProjectAlreadyConnected))
}

func TestConnectChannel_ChannelTakenByAnotherProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := helpers.CreateCreator(t, env.db, 4002)

	helpers.CreateProject(t, env.db, owner, -5005)
	pending := helpers.CreateProject(t, env.db, owner, 0)

	_, err := env.svc.ProjectService.ConnectChannel(ctx, env.db, &dto.ConnectChannelRequest{
		ConnectionCode:    pending.ConnectionCode,
		TelegramChannelID: -5005,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrChannelAlreadyConnected))

	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestProjectOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := helpers.CreateCreator(t, env.db, 4003)
	stranger := helpers.CreateCreator(t, env.db, 4004)
	project := helpers.CreateProject(t, env.db, owner, 0)

	title := "Renamed"
	_, err := env.svc.ProjectService.Update(ctx, env.db, stranger.ID, project.ID, &dto.UpdateProjectRequest{Title: &title})
	assert.True(t, errors.Is(err, apperrors.ErrNotProjectOwner))

	updated, err := env.svc.ProjectService.Update(ctx, env.db, owner.ID, project.ID, &dto.UpdateProjectRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	list, err := env.svc.ProjectService.ListByOwnerTelegramID(ctx, env.db, 4003)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.svc.ProjectService.Get(ctx, env.db, 9999)
	assert.True(t, errors.Is(err, apperrors.ErrProjectNotFound))
}

func TestPlanService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := helpers.CreateCreator(t, env.db, 4005)
	stranger := helpers.CreateCreator(t, env.db, 4006)
	project := helpers.CreateProject(t, env.db, owner, -4005)

	_, err := env.svc.PlanService.Create(ctx, env.db, stranger.ID, &dto.CreatePlanRequest{
		ProjectID:    project.ID,
		Name:         "Monthly",
		Price:        decimal.RequireFromString("9.99"),
		DurationDays: 30,
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotProjectOwner))

	plan, err := env.svc.PlanService.Create(ctx, env.db, owner.ID, &dto.CreatePlanRequest{
		ProjectID:    project.ID,
		Name:         "Monthly",
		Price:        decimal.RequireFromString("9.99"),
		DurationDays: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", plan.Currency)
	assert.Equal(t, int64(999), plan.PriceCents())

	plans, err := env.svc.PlanService.ListActiveByProject(ctx, env.db, project.ID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	require.NoError(t, env.svc.PlanService.Deactivate(ctx, env.db, owner.ID, plan.ID))

	plans, err = env.svc.PlanService.ListActiveByProject(ctx, env.db, project.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)

	_, err = env.svc.PlanService.ListActiveByProject(ctx, env.db, 9999)
	assert.True(t, errors.Is(err, apperrors.ErrProjectNotFound))
}
