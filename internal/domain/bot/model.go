package bot

import (
	"time"

	"github.com/VladKovDev/bot-panel/internal/telegram"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// maskedTokenPrefix is how many leading characters of a token the aggregate
// status view exposes.
const maskedTokenPrefix = 10

// Instance is one active bot registration, keyed by its credential token.
// It lives only in process memory and is gone on restart.
type Instance struct {
	Token      string            `json:"token"`
	WebhookURL string            `json:"webhookUrl"`
	Info       *telegram.BotInfo `json:"info,omitempty"`
	Status     Status            `json:"status"`
	StartedAt  time.Time         `json:"startedAt"`
}

// MaskToken shortens a token to its prefix so status listings never leak the
// full credential.
func MaskToken(token string) string {
	if len(token) <= maskedTokenPrefix {
		return token
	}
	return token[:maskedTokenPrefix] + "..."
}
