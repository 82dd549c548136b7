package services_test

import (
	"context"
	"errors"
	"testing"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/models"
	"fanstero_backend/pkg/apperrors"
	"fanstero_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBalance(t *testing.T, env *testEnv, user *models.User, cents int64) {
	t.Helper()
	require.NoError(t, env.db.Model(user).Update("balance_cents", cents).Error)
}

func TestRequestPayout_RequiresSettings(t *testing.T) {
	env := newTestEnv(t)
	creator := helpers.CreateCreator(t, env.db, 2001)
	setBalance(t, env, creator, 5000)

	_, err := env.svc.PayoutService.RequestPayout(context.Background(), env.db, creator.ID)
	assert.True(t, errors.Is(err, apperrors.ErrPayoutSettingsMissing))
	assert.Equal(t, int64(5000), helpers.ReloadUser(t, env.db, creator.ID).BalanceCents)
}

func TestRequestPayout_BelowMinimum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := helpers.CreateCreator(t, env.db, 2002)

	_, err := env.svc.UserService.UpdatePayoutSettings(ctx, env.db, creator.ID, &dto.PayoutSettingsRequest{
		PayoutMethod:  "iban",
		PayoutDetails: "DE89 3704 0044 0532 0130 00",
	})
	require.NoError(t, err)

	setBalance(t, env, creator, env.billing.MinPayoutCents-1)
	_, err = env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBalanceBelowMinimum))

	setBalance(t, env, creator, 0)
	_, err = env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBalanceBelowMinimum))
}

func TestRequestPayout_TakesWholeBalanceOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := helpers.CreateCreator(t, env.db, 2003)

	_, err := env.svc.UserService.UpdatePayoutSettings(ctx, env.db, creator.ID, &dto.PayoutSettingsRequest{
		PayoutMethod:  "paypal",
		PayoutDetails: "creator@example.com",
	})
	require.NoError(t, err)
	setBalance(t, env, creator, 4550)

	payout, err := env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4550), payout.AmountCents)
	assert.Equal(t, models.PayoutStatusPending, payout.Status)
	assert.Equal(t, models.PayoutMethodPayPal, payout.PayoutMethod)
	assert.Equal(t, "creator@example.com", payout.PayoutDetails)
	assert.Equal(t, int64(0), helpers.ReloadUser(t, env.db, creator.ID).BalanceCents)

	_, err = env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBalanceBelowMinimum), "второй запрос не уводит баланс в минус")

	list, err := env.svc.PayoutService.ListForUser(ctx, env.db, creator.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	summary, err := env.svc.UserService.GetBalanceSummary(ctx, env.db, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4550), summary.PendingPayoutCents)
	assert.False(t, summary.CanRequestPayout)
}

func TestPayoutStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := helpers.CreateCreator(t, env.db, 2004)

	_, err := env.svc.UserService.UpdatePayoutSettings(ctx, env.db, creator.ID, &dto.PayoutSettingsRequest{
		PayoutMethod:  "crypto",
		PayoutDetails: "0xabc123",
	})
	require.NoError(t, err)
	setBalance(t, env, creator, 3000)

	payout, err := env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	require.NoError(t, err)

	_, err = env.svc.PayoutService.UpdateStatus(ctx, env.db, payout.ID, models.PayoutStatusPaid)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPayoutTransition), "pending -> paid запрещен")

	updated, err := env.svc.PayoutService.UpdateStatus(ctx, env.db, payout.ID, models.PayoutStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusApproved, updated.Status)
	assert.Nil(t, updated.ProcessedAt)

	updated, err = env.svc.PayoutService.UpdateStatus(ctx, env.db, payout.ID, models.PayoutStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, updated.Status)
	assert.NotNil(t, updated.ProcessedAt)

	_, err = env.svc.PayoutService.UpdateStatus(ctx, env.db, payout.ID, models.PayoutStatusRejected)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPayoutTransition))

	_, err = env.svc.PayoutService.UpdateStatus(ctx, env.db, 9999, models.PayoutStatusApproved)
	assert.True(t, errors.Is(err, apperrors.ErrPayoutNotFound))

	all, total, err := env.svc.PayoutService.ListAll(ctx, env.db, models.PayoutStatusPaid, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, all, 1)
}

func TestRejectedPayoutKeepsBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	creator := helpers.CreateCreator(t, env.db, 2005)

	_, err := env.svc.UserService.UpdatePayoutSettings(ctx, env.db, creator.ID, &dto.PayoutSettingsRequest{
		PayoutMethod:  "iban",
		PayoutDetails: "FR76 3000 6000 0112 3456 7890 189",
	})
	require.NoError(t, err)
	setBalance(t, env, creator, 2500)

	payout, err := env.svc.PayoutService.RequestPayout(ctx, env.db, creator.ID)
	require.NoError(t, err)

	_, err = env.svc.PayoutService.UpdateStatus(ctx, env.db, payout.ID, models.PayoutStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, int64(0), helpers.ReloadUser(t, env.db, creator.ID).BalanceCents, "баланс пополняется только платежами")
}
