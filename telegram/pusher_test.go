package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/duo_finder/internal/models"
)

type fakeSender struct {
	errs []error
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return tgbotapi.Message{}, err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestPusher_Push(t *testing.T) {
	matchID := "3f0d8a8e-5f2b-4c55-9a3e-1b8d7c6e5f40"
	n := &models.Notification{Title: "매칭 성공!", Message: "<bob>님과 매칭되었습니다!", MatchID: &matchID}

	api := &fakeSender{}
	if err := newPusher(api, "https://duo.example/").Push(context.Background(), 42, n); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(api.sent))
	}

	msg := api.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeHTML {
		t.Errorf("message = chat %d mode %q", msg.ChatID, msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "&lt;bob&gt;") || !strings.HasPrefix(msg.Text, "<b>매칭 성공!</b>") {
		t.Errorf("Text = %q", msg.Text)
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || *kb.InlineKeyboard[0][0].URL != "https://duo.example/matches/"+matchID {
		t.Errorf("ReplyMarkup = %+v", msg.ReplyMarkup)
	}
}

func TestPusher_Retries(t *testing.T) {
	n := &models.Notification{Title: "t", Message: "m"}

	tests := []struct {
		name    string
		errs    []error
		wantErr bool
		sent    int
	}{
		{name: "Network error then success", errs: []error{errors.New("read: connection reset by peer")}, sent: 1},
		{name: "Bad request is final", errs: []error{errors.New("Bad Request: chat not found")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeSender{errs: tt.errs}
			err := newPusher(api, "").Push(context.Background(), 1, n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Push() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(api.sent) != tt.sent {
				t.Errorf("sent = %d, want %d", len(api.sent), tt.sent)
			}
		})
	}
}
