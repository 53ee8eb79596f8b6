package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/controller/state"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

// Sender отправляет текст в чат. Транспорт (Telegram) скрыт за этим
// интерфейсом — обработчикам нужен только текст и идентификатор чата.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Handlers содержит все зависимости для обработки входящих сообщений
type Handlers struct {
	sender   Sender
	bookings *service.BookingService
	sessions *state.Manager
	logger   *zap.Logger
}

// NewHandlers создаёт новый обработчик сообщений
func NewHandlers(
	sender Sender,
	bookings *service.BookingService,
	sessions *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sender:   sender,
		bookings: bookings,
		sessions: sessions,
		logger:   logger,
	}
}

// send отправляет ответ, ошибки транспорта только логируются —
// терять из-за них состояние диалога нельзя
func (h *Handlers) send(ctx context.Context, chatID int64, text string) {
	if err := h.sender.Send(ctx, chatID, text); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
