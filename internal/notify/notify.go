// Package notify доставляет напоминания пользователям.
// Если токен бота не задан, напоминания только пишутся в лог.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// Notifier отправляет текст в чат.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Telegram — отправка через Bot API.
type Telegram struct {
	bot *telego.Bot
}

// NewTelegram создаёт бота. Токен проверяется на формат сразу,
// сеть не трогается.
func NewTelegram(token string) (*Telegram, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram бота: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	if _, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("ошибка отправки в чат %d: %w", chatID, err)
	}
	return nil
}

// Log — заглушка без бота: пишет напоминание в лог.
type Log struct{}

func (Log) Notify(_ context.Context, chatID int64, text string) error {
	log.WithFields(log.Fields{
		"chat_id": chatID,
		"text":    text,
	}).Info("Напоминание (бот не настроен)")
	return nil
}

// Recorder копит сообщения в памяти. Используется в тестах задач.
type Recorder struct {
	mu   sync.Mutex
	Sent []Message
}

// Message — отправленное сообщение.
type Message struct {
	ChatID int64
	Text   string
}

func (r *Recorder) Notify(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Message{ChatID: chatID, Text: text})
	return nil
}

// Messages возвращает копию отправленных сообщений.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.Sent...)
}

// New выбирает Telegram при заданном токене, иначе Log.
func New(token string) (Notifier, error) {
	if token == "" {
		return Log{}, nil
	}
	return NewTelegram(token)
}
