package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers reminders as HTML messages to one chat.
// Each message embeds a /task_<id> command so the chat entry links
// back to the task it came from.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, r Reminder) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏰ <b>%s</b>\n", html.EscapeString(strings.TrimSpace(r.Title))))
	if desc := strings.TrimSpace(r.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("📝 %s\n", html.EscapeString(desc)))
	}
	if r.DueAt != nil {
		sb.WriteString(fmt.Sprintf("🗓 due %s\n", r.DueAt.Format("2006-01-02 15:04")))
	}
	sb.WriteString(fmt.Sprintf("\n/task_%d", r.TaskID))
	return n.Send(ctx, sb.String())
}

func (n *TelegramNotifier) Send(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
