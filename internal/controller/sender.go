package controller

import (
	"context"
	"math/rand"
	"time"

	"github.com/go-telegram/bot"
)

// TelegramSender отправляет сообщения через Telegram Bot API
type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(b *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: b}
}

// Send отправляет текст в чат с паузой 1–2 секунды перед отправкой,
// чтобы не упираться в лимиты API при серии ответов
func (s *TelegramSender) Send(ctx context.Context, chatID int64, text string) error {
	delay := time.Second + time.Duration(rand.Int63n(int64(time.Second)))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
