package telegram

// Wire types for the subset of the Bot API this panel consumes. The
// go-telegram-bot-api structs predate Bot API 6.0 and are missing
// is_premium, so the inbound shapes are declared here instead.

// Update is one event pushed by Telegram to the webhook.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID      int64    `json:"message_id"`
	From           *User    `json:"from,omitempty"`
	Chat           *Chat    `json:"chat,omitempty"`
	Text           string   `json:"text,omitempty"`
	ReplyToMessage *Message `json:"reply_to_message,omitempty"`
}

// Chat is the conversation a message belongs to.
type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// User is a Telegram account as seen in updates.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsPremium bool   `json:"is_premium,omitempty"`
	DCID      int    `json:"dc_id,omitempty"`
}

// BotInfo is the identity returned by getMe.
type BotInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	IsPremium bool   `json:"is_premium"`
	DCID      int    `json:"dc_id,omitempty"`
}
