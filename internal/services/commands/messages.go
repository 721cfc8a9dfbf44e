package commands

import (
	"fmt"
	"strings"

	"github.com/VladKovDev/bot-panel/internal/domain/user"
	"github.com/VladKovDev/bot-panel/internal/services/broadcast"
	"github.com/VladKovDev/bot-panel/internal/telegram"
)

const featureList = `*Available features:*
/info - Look up another user
/id - Show chat and user IDs
/broadcast - Broadcast to all users (owner only)`

// startMessage is the profile card sent in reply to /start.
func startMessage(u *telegram.User) string {
	return fmt.Sprintf("🤖 *Your Account Info:*\n\n%s\n\n%s",
		profileCard(u.Username, u.FirstName, u.LastName, u.ID, u.DCID, u.IsPremium),
		featureList)
}

// infoMessage is the profile card sent in reply to /info.
func infoMessage(rec *user.Record) string {
	return fmt.Sprintf("📋 *User Info:*\n\n%s",
		profileCard(rec.Username, rec.FirstName, rec.LastName, rec.ID, rec.DCID, rec.IsPremium))
}

func profileCard(username, firstName, lastName string, id int64, dcID int, premium bool) string {
	handle := "none"
	if username != "" {
		handle = "@" + username
	}

	name := strings.TrimSpace(firstName + " " + lastName)

	dc := "unknown"
	if dcID != 0 {
		dc = fmt.Sprintf("%d", dcID)
	}

	return fmt.Sprintf(
		"👤 *Username:* %s\n📛 *Name:* %s\n🆔 *ID:* `%d`\n🏢 *DC ID:* %s\n⭐ *Premium:* %s",
		handle, name, id, dc, yesNo(premium))
}

// idMessage reports the chat and sender IDs for /id.
func idMessage(msg *telegram.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💬 *Chat ID:* `%d`\n", msg.Chat.ID)
	fmt.Fprintf(&b, "👤 *Your ID:* `%d`\n", msg.From.ID)
	fmt.Fprintf(&b, "📛 *Chat Type:* %s", msg.Chat.Type)
	if msg.Chat.Title != "" {
		fmt.Fprintf(&b, "\n🏷️ *Group Title:* %s", msg.Chat.Title)
	}
	return b.String()
}

// broadcastSummary reports the outcome of a /broadcast run to its issuer.
func broadcastSummary(report broadcast.Report) string {
	return fmt.Sprintf("✅ Broadcast finished!\n\nSent: %d\nFailed: %d\nTotal: %d",
		report.Sent, report.Failed, report.Total)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
