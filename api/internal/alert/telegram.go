// Package alert pushes pending-backlog notifications to an operator chat.
package alert

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is optional: a nil *Notifier is a no-op, so callers never have to
// branch on configuration.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// PendingBacklog sends one message about the current backlog size.
func (n *Notifier) PendingBacklog(count, threshold int) error {
	if n == nil {
		return nil
	}
	text := fmt.Sprintf("⚠️ Complaint backlog alert: %d complaints pending (threshold %d). Please review the admin dashboard.", count, threshold)
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text))
	return err
}
