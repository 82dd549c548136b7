// Package testserver поднимает полное HTTP API для интеграционных тестов.
// helpers не должен зависеть от app: его импортируют внутренние тесты пакетов, которые собирает app.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fanstero_backend/internal/app"
	"fanstero_backend/internal/auth"
	"fanstero_backend/internal/config"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/metrics"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/services"
	"fanstero_backend/internal/services/billing"
	"fanstero_backend/test/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	TestBotSecret     = "test-bot-secret"
	TestWebhookSecret = "whsec_test"
	TestAdminTgID     = int64(1)
)

type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Config   *config.Config
	Services *services.ServiceContainer
	Tokens   *auth.TokenManager
	Provider *billing.MockProvider
}

// NewTestServer поднимает полное API поверх in-memory sqlite и MockProvider
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger.Init("test")
	metrics.InitMetrics()

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Server.FrontendURL = ""
	cfg.JWT.Secret = "test-jwt-secret"
	cfg.Telegram.BotUsername = "fanstero_bot"
	cfg.Telegram.BotToken = "123456:TEST-bot-token"
	cfg.Telegram.BotSecret = TestBotSecret
	cfg.Stripe.WebhookSecret = TestWebhookSecret
	cfg.Admin.TelegramIDs = []int64{TestAdminTgID}

	db := helpers.NewTestDB(t)
	container, err := app.BuildServices(cfg, app.LogNotifier{})
	require.NoError(t, err)
	provider, ok := container.Provider.(*billing.MockProvider)
	require.True(t, ok, "без ключа Stripe должен использоваться MockProvider")

	tokens := app.NewTokenManager(cfg)
	server := httptest.NewServer(app.SetupRouter(cfg, db, container, tokens))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:   server,
		DB:       db,
		Config:   cfg,
		Services: container,
		Tokens:   tokens,
		Provider: provider,
	}
}

// TokenFor выпускает токен дашборда для создателя
func (ts *TestServer) TokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := ts.Tokens.GenerateToken(user.ID, user.TelegramID)
	require.NoError(t, err)
	return token
}

// SendRequest - JSON запрос с Bearer токеном (если задан)
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return ts.send(t, method, path, headers, encodeBody(t, body))
}

// SendBotRequest - запрос от имени бота (X-Bot-Secret)
func (ts *TestServer) SendBotRequest(t *testing.T, method, path string, body interface{}) (*http.Response, string) {
	t.Helper()
	return ts.send(t, method, path, map[string]string{"X-Bot-Secret": TestBotSecret}, encodeBody(t, body))
}

// SendWebhook отправляет payload, подписанный MockProvider
func (ts *TestServer) SendWebhook(t *testing.T, payload []byte) (*http.Response, string) {
	t.Helper()
	headers := map[string]string{"Stripe-Signature": ts.Provider.Sign(payload)}
	return ts.send(t, http.MethodPost, "/api/v1/payments/stripe/webhook", headers, payload)
}

func encodeBody(t *testing.T, body interface{}) []byte {
	t.Helper()
	if body == nil {
		return nil
	}
	jsonBody, err := json.Marshal(body)
	require.NoError(t, err, "Ошибка кодирования JSON для запроса")
	return jsonBody
}

func (ts *TestServer) send(t *testing.T, method, path string, headers map[string]string, body []byte) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")

	return res, string(resBodyBytes)
}
