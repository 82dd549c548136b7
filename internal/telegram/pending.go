package telegram

import (
	"sync"
	"time"
)

const pendingConnectTTL = time.Hour

type pendingCode struct {
	code    string
	expires time.Time
}

// pendingConnections помнит код подключения между /start connect_<code>
// и событием my_chat_member, когда бота добавили в канал
type pendingConnections struct {
	mu    sync.Mutex
	codes map[int64]pendingCode
	now   func() time.Time
}

func newPendingConnections() *pendingConnections {
	return &pendingConnections{
		codes: make(map[int64]pendingCode),
		now:   time.Now,
	}
}

func (p *pendingConnections) Put(telegramID int64, code string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for id, c := range p.codes {
		if now.After(c.expires) {
			delete(p.codes, id)
		}
	}
	p.codes[telegramID] = pendingCode{code: code, expires: now.Add(pendingConnectTTL)}
}

// Take возвращает код и забывает его
func (p *pendingConnections) Take(telegramID int64) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.codes[telegramID]
	if !ok {
		return "", false
	}
	delete(p.codes, telegramID)
	if p.now().After(c.expires) {
		return "", false
	}
	return c.code, true
}
