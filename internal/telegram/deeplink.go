package telegram

import (
	"strconv"
	"strings"
)

const (
	payloadProject = "project_"
	payloadConnect = "connect_"
)

type StartKind int

const (
	StartPlain StartKind = iota
	StartProject
	StartConnect
)

// StartPayload - разобранный параметр /start <payload>
type StartPayload struct {
	Kind      StartKind
	ProjectID uint
	Code      string
}

// ParseStartPayload разбирает текст "/start project_12" или "/start connect_<code>".
// Незнакомый или битый payload считается обычным /start.
func ParseStartPayload(text string) StartPayload {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return StartPayload{Kind: StartPlain}
	}
	payload := fields[1]

	switch {
	case strings.HasPrefix(payload, payloadProject):
		id, err := strconv.ParseUint(strings.TrimPrefix(payload, payloadProject), 10, 64)
		if err != nil || id == 0 {
			return StartPayload{Kind: StartPlain}
		}
		return StartPayload{Kind: StartProject, ProjectID: uint(id)}
	case strings.HasPrefix(payload, payloadConnect):
		code := strings.TrimPrefix(payload, payloadConnect)
		if code == "" || len(code) > 64 {
			return StartPayload{Kind: StartPlain}
		}
		return StartPayload{Kind: StartConnect, Code: code}
	}
	return StartPayload{Kind: StartPlain}
}

// ProjectLink - ссылка, которую создатель публикует для подписчиков
func ProjectLink(botUsername string, projectID uint) string {
	return "https://t.me/" + botUsername + "?start=" + payloadProject + strconv.FormatUint(uint64(projectID), 10)
}

// AddToChannelLink открывает выбор канала с нужными правами администратора
func AddToChannelLink(botUsername string) string {
	return "https://t.me/" + botUsername + "?startchannel&admin=invite_users+restrict_members"
}
