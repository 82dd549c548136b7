package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStartPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		want StartPayload
	}{
		{"plain", "/start", StartPayload{Kind: StartPlain}},
		{"project", "/start project_42", StartPayload{Kind: StartProject, ProjectID: 42}},
		{"connect", "/start connect_abc123", StartPayload{Kind: StartConnect, Code: "abc123"}},
		{"project zero", "/start project_0", StartPayload{Kind: StartPlain}},
		{"project garbage", "/start project_x1", StartPayload{Kind: StartPlain}},
		{"empty code", "/start connect_", StartPayload{Kind: StartPlain}},
		{"unknown", "/start hello", StartPayload{Kind: StartPlain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStartPayload(tt.text))
		})
	}
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://t.me/fanstero_bot?start=project_7", ProjectLink("fanstero_bot", 7))
	assert.Equal(t, "https://t.me/fanstero_bot?startchannel&admin=invite_users+restrict_members", AddToChannelLink("fanstero_bot"))
}

func TestPendingConnections(t *testing.T) {
	p := newPendingConnections()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	p.Put(1, "code-a")
	code, ok := p.Take(1)
	assert.True(t, ok)
	assert.Equal(t, "code-a", code)

	_, ok = p.Take(1)
	assert.False(t, ok, "код выдается один раз")

	p.Put(2, "code-b")
	now = now.Add(pendingConnectTTL + time.Minute)
	_, ok = p.Take(2)
	assert.False(t, ok, "просроченный код не выдается")
}
