// Package telegram pushes stored notifications to users' Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/logger"
)

const maxSendAttempts = 3

// Button labels
const (
	BtnViewMatch     = "🎮 매칭 확인하기"
	BtnNotifications = "🔔 알림 보기"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Pusher struct {
	api    sender
	appURL string
}

// NewPusher authorizes the bot token. appURL, when set, is used for the
// inline button under each message.
func NewPusher(token, appURL string, debug bool) (*Pusher, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug
	logger.Info("Authorized on account", "username", api.Self.UserName)
	return newPusher(api, appURL), nil
}

func newPusher(api sender, appURL string) *Pusher {
	return &Pusher{api: api, appURL: strings.TrimRight(appURL, "/")}
}

// Push sends n to chatID, retrying network failures.
func (p *Pusher) Push(ctx context.Context, chatID int64, n *models.Notification) error {
	msg := tgbotapi.NewMessage(chatID, formatNotification(n))
	msg.ParseMode = tgbotapi.ModeHTML
	if kb, ok := p.keyboard(n); ok {
		msg.ReplyMarkup = kb
	}

	var err error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if _, err = p.api.Send(msg); err == nil {
			return nil
		}
		logger.Warn("Failed to send message", "error", err, "chat_id", chatID, "attempt", attempt)
		if !isNetworkError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return err
}

func (p *Pusher) keyboard(n *models.Notification) (tgbotapi.InlineKeyboardMarkup, bool) {
	if p.appURL == "" {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	if n.MatchID != nil {
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(BtnViewMatch, p.appURL+"/matches/"+*n.MatchID),
		)), true
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(BtnNotifications, p.appURL+"/notifications"),
	)), true
}

func formatNotification(n *models.Notification) string {
	return fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Message))
}

func isNetworkError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "network is unreachable")
}
