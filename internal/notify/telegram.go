// Package notify pushes moderation events to the admin Telegram channel.
package notify

import (
	"fmt"
	"log"
	"time"

	"villago/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier is outbound-only: it posts alerts into a single admin chat
// and never reads updates.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Telegram notifier authorized as @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// ReportFiled alerts admins about a new moderation report.
func (n *TelegramNotifier) ReportFiled(report *models.Report) {
	text := fmt.Sprintf("New report #%d\nType: %s\nReported user: %s\nRoom: %s",
		report.ID, report.ReportType, report.ReportedUserID, report.RoomID)
	if report.Comment != "" {
		text += "\nComment: " + report.Comment
	}
	n.send(text)
}

// UserBanned alerts admins that the escalation policy banned a user.
func (n *TelegramNotifier) UserBanned(userID string, level int, until time.Time) {
	n.send(fmt.Sprintf("User %s banned (level %d) until %s",
		userID, level, until.Format(time.RFC3339)))
}

func (n *TelegramNotifier) send(text string) {
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		log.Printf("WARNING: Failed to send Telegram alert: %v", err)
	}
}
