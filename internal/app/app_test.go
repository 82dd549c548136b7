package app

import (
	"testing"

	"fanstero_backend/internal/config"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/services/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	logger.Init("test")
	cfg := config.Defaults()
	cfg.Server.Env = env
	cfg.JWT.Secret = "jwt-secret"
	return cfg
}

func TestBuildServices_ProductionRefusesMockProvider(t *testing.T) {
	cfg := testConfig("production")

	container, err := BuildServices(cfg, LogNotifier{})
	assert.Error(t, err)
	assert.Nil(t, container)

	// даже с секретом вебхука мок в production не поднимается
	cfg.Stripe.WebhookSecret = "whsec_prod"
	_, err = BuildServices(cfg, LogNotifier{})
	assert.Error(t, err)
}

func TestBuildServices_MockProviderNeedsWebhookSecret(t *testing.T) {
	cfg := testConfig("development")
	cfg.Stripe.WebhookSecret = ""

	_, err := BuildServices(cfg, LogNotifier{})
	assert.Error(t, err, "пустой секрет позволил бы подписать вебхук кому угодно")
}

func TestBuildServices_ProviderSelection(t *testing.T) {
	t.Run("development without stripe key", func(t *testing.T) {
		cfg := testConfig("development")
		cfg.Stripe.WebhookSecret = "whsec_local"

		container, err := BuildServices(cfg, LogNotifier{})
		require.NoError(t, err)
		_, isMock := container.Provider.(*billing.MockProvider)
		assert.True(t, isMock)
	})

	t.Run("stripe key configured", func(t *testing.T) {
		cfg := testConfig("production")
		cfg.Stripe.SecretKey = "sk_test_x"
		cfg.Stripe.WebhookSecret = "whsec_x"

		container, err := BuildServices(cfg, LogNotifier{})
		require.NoError(t, err)
		assert.Equal(t, "stripe", container.Provider.Name())
	})

	t.Run("stripe key without webhook secret", func(t *testing.T) {
		cfg := testConfig("production")
		cfg.Stripe.SecretKey = "sk_test_x"

		_, err := BuildServices(cfg, LogNotifier{})
		assert.Error(t, err)
	})
}
