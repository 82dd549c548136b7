package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProvider используется для тестов и локальной разработки без ключей Stripe.
// Вебхук - JSON WebhookEvent, подпись - hex(HMAC-SHA256(payload, secret)).
type MockProvider struct {
	Secret  string
	BaseURL string

	mu       sync.Mutex
	Sessions []*CheckoutRequest
	FailNext error
}

func NewMockProvider(secret string) *MockProvider {
	return &MockProvider{Secret: secret, BaseURL: "https://checkout.mock.local/pay/"}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) CreateCheckoutSession(_ context.Context, req *CheckoutRequest) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return nil, err
	}
	m.Sessions = append(m.Sessions, req)
	id := "cs_mock_" + uuid.NewString()
	return &CheckoutSession{ID: id, URL: m.BaseURL + id}, nil
}

func (m *MockProvider) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	if !hmac.Equal([]byte(m.Sign(payload)), []byte(signature)) {
		return nil, ErrInvalidSignature
	}
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("mock: decode event: %w", err)
	}
	return &event, nil
}

// Sign подписывает payload так, как этого ждет ParseWebhookEvent
func (m *MockProvider) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(m.Secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// CompletedEvent собирает payload успешной оплаты сессии
func (m *MockProvider) CompletedEvent(sessionID string, amountCents int64, currency string) []byte {
	payload, _ := json.Marshal(&WebhookEvent{
		ID:          "evt_mock_" + uuid.NewString(),
		Type:        EventCheckoutCompleted,
		RawType:     "checkout.session.completed",
		SessionID:   sessionID,
		Paid:        true,
		AmountTotal: amountCents,
		Currency:    currency,
	})
	return payload
}
