package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/controller/state"
	"github.com/Azemoten/sauna-booking-bot/internal/repository"
)

// Dispatch разбирает входящее сообщение: сначала команды, затем активный шаг
// мастера. phone — стабильный идентификатор отправителя. Сессия чата держится
// под замком на всё время обработки: телеграм-библиотека запускает обработчики
// в отдельных горутинах, и без замка два быстрых сообщения одного чата
// гоняли бы состояние мастера.
func (h *Handlers) Dispatch(ctx context.Context, chatID int64, phone, text string) {
	t := strings.TrimSpace(text)
	if t == "" {
		return
	}

	firstWord := strings.Fields(t)[0]

	s := h.sessions.Lock(chatID)
	defer h.sessions.Unlock(chatID)

	switch {
	case t == "/start":
		h.send(ctx, chatID, "Привет! Это бот бронирования кабинок.\n\n"+helpText())
		return
	case t == "/help":
		h.send(ctx, chatID, helpText())
		return
	case t == "/reset":
		s.Reset()
		h.send(ctx, chatID, "Сбросил. "+helpText())
		return
	case containsString(bookAliases, t):
		h.HandleBookStart(ctx, chatID, s)
		return
	case t == "/my":
		h.HandleMy(ctx, chatID, phone)
		return
	case t == "/today":
		h.HandleToday(ctx, chatID)
		return
	case containsString(cancelAliases, firstWord):
		h.HandleCancel(ctx, chatID, phone, t)
		return
	}

	switch s.Step {
	case state.StepChooseDate:
		h.handleChooseDate(ctx, chatID, s, t)
	case state.StepChooseSlot:
		h.handleChooseSlot(ctx, chatID, s, t)
	case state.StepChooseCabin:
		h.handleChooseCabin(ctx, chatID, s, t)
	case state.StepChoosePeople:
		h.handleChoosePeople(ctx, chatID, s, t)
	case state.StepConfirm:
		h.handleConfirm(ctx, chatID, phone, s, t)
	default:
		// Человек просто что-то написал вне диалога — подсказка
		h.send(ctx, chatID, "Привет! "+helpText())
	}
}

// HandleMy показывает брони клиента, отсортированные по времени начала
func (h *Handlers) HandleMy(ctx context.Context, chatID int64, phone string) {
	items, err := h.bookings.ListByPhone(ctx, phone)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.String("phone", phone), zap.Error(err))
		h.send(ctx, chatID, "⚠️ Не получилось загрузить брони. Попробуйте позже.")
		return
	}

	if len(items) == 0 {
		h.send(ctx, chatID, "У вас нет активных броней. Напишите /book чтобы забронировать.")
		return
	}

	lines := make([]string, 0, len(items))
	for i, b := range items {
		lines = append(lines, h.FormatBookingLine(i, b))
	}

	h.send(ctx, chatID, "Ваши брони:\n"+strings.Join(lines, "\n")+
		"\n\nОтменить бронь: /cancel <номер>")
}

// HandleCancel отменяет бронь по порядковому номеру из выдачи /my
func (h *Handlers) HandleCancel(ctx context.Context, chatID int64, phone, text string) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		h.send(ctx, chatID, "Формат: /cancel <номер> или отмена <номер>\nНапример: /cancel 1 или отмена 1")
		return
	}

	num, err := strconv.Atoi(parts[1])
	if err != nil || num < 1 {
		h.send(ctx, chatID, "Номер должен быть положительным целым числом.")
		return
	}

	err = h.bookings.CancelByOrdinal(ctx, phone, num)
	switch {
	case err == nil:
		h.send(ctx, chatID, "✅ Бронь отменена.")
	case errors.Is(err, repository.ErrNotFound):
		h.send(ctx, chatID, "Нет брони с таким номером.")
	default:
		h.logger.Error("Failed to cancel booking", zap.String("phone", phone), zap.Error(err))
		h.send(ctx, chatID, "⚠️ Ошибка отмены. Попробуйте позже.")
	}
}

// HandleToday сводка ближайших свободных слотов на сегодня
func (h *Handlers) HandleToday(ctx context.Context, chatID int64) {
	today := h.bookings.Calendar().StartOfDay(time.Now())

	all, err := h.bookings.SlotsForDate(ctx, today)
	if err != nil {
		h.logger.Error("Failed to build today digest", zap.Error(err))
		h.send(ctx, chatID, "⚠️ Не получилось проверить слоты. Попробуйте позже.")
		return
	}

	if len(all) == 0 {
		h.send(ctx, chatID, "Сегодня нет доступных слотов.")
		return
	}

	var lines []string
	for _, sa := range all {
		if sa.Free == 0 {
			continue
		}
		free, err := h.bookings.FreeCabins(ctx, sa.Slot)
		if err != nil {
			h.logger.Error("Failed to list free cabins", zap.Error(err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: кабинки %s", h.FmtSlot(sa.Slot), joinInts(free)))
		if len(lines) >= TodayDigestLimit {
			break
		}
	}

	if len(lines) == 0 {
		h.send(ctx, chatID, "Сегодня всё занято.")
		return
	}

	h.send(ctx, chatID, "Ближайшие свободные слоты сегодня:\n"+strings.Join(lines, "\n"))
}
