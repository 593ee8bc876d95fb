package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type MessageUpdate struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
	Command  string
}

func (m MessageUpdate) IsCommand() bool {
	return m.Command != ""
}

type CallbackUpdate struct {
	CallbackID string
	ChatID     int64
	MessageID  int
	UserID     int64
	Username   string
	Data       string
}

// Update is an inbound event reduced to what the bot reacts to.
// Exactly one of Message and Callback is set.
type Update struct {
	ID       int
	Message  *MessageUpdate
	Callback *CallbackUpdate
}

// FromAPIUpdate normalizes a Bot API update. ok is false for update kinds the
// bot ignores (edited messages, channel posts, messages without a sender).
func FromAPIUpdate(u tgbotapi.Update) (Update, bool) {
	out := Update{ID: u.UpdateID}

	if msg := u.Message; msg != nil && msg.From != nil && msg.Chat != nil {
		text := msg.Text
		if text == "" {
			text = msg.Caption
		}
		m := &MessageUpdate{
			ChatID:   msg.Chat.ID,
			UserID:   msg.From.ID,
			Username: msg.From.UserName,
			Text:     strings.TrimSpace(text),
		}
		if msg.IsCommand() {
			m.Command = strings.ToLower(msg.Command())
		}
		out.Message = m
		return out, true
	}

	if cb := u.CallbackQuery; cb != nil && cb.From != nil {
		c := &CallbackUpdate{
			CallbackID: cb.ID,
			UserID:     cb.From.ID,
			Username:   cb.From.UserName,
			Data:       cb.Data,
		}
		if cb.Message != nil {
			c.MessageID = cb.Message.MessageID
			if cb.Message.Chat != nil {
				c.ChatID = cb.Message.Chat.ID
			}
		}
		if c.ChatID == 0 {
			c.ChatID = cb.From.ID
		}
		out.Callback = c
		return out, true
	}

	return Update{}, false
}

// SenderID is the Telegram user behind the update, zero when unknown.
func (u Update) SenderID() int64 {
	switch {
	case u.Message != nil:
		return u.Message.UserID
	case u.Callback != nil:
		return u.Callback.UserID
	default:
		return 0
	}
}
