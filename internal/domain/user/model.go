package user

import (
	"time"

	"github.com/VladKovDev/bot-panel/internal/telegram"
)

// Record is a tracked Telegram user. BotToken scopes the otherwise global
// user map to the bot the user talked to; LastActive is overwritten on every
// inbound message.
type Record struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	IsPremium  bool      `json:"is_premium"`
	DCID       int       `json:"dc_id,omitempty"`
	BotToken   string    `json:"botToken"`
	LastActive time.Time `json:"last_active"`
}

// FromTelegram builds a record out of the `from` field of an update.
func FromTelegram(u *telegram.User, botToken string, seenAt time.Time) *Record {
	return &Record{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsPremium:  u.IsPremium,
		DCID:       u.DCID,
		BotToken:   botToken,
		LastActive: seenAt,
	}
}
