package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/controller/state"
	"github.com/Azemoten/sauna-booking-bot/internal/model"
	"github.com/Azemoten/sauna-booking-bot/internal/schedule"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// HandleBookStart запускает мастер бронирования: предлагает даты на
// advance_days+1 дней вперёд
func (h *Handlers) HandleBookStart(ctx context.Context, chatID int64, s *state.Session) {
	s.Reset()
	s.Step = state.StepChooseDate

	cfg := h.bookings.Config()
	today := h.bookings.Calendar().StartOfDay(time.Now())

	var lines []string
	for i := 0; i <= cfg.AdvanceDays; i++ {
		d := today.AddDate(0, 0, i)
		lines = append(lines, fmt.Sprintf("%d) %s (%s)", i+1, h.FmtDate(d), schedule.WeekdayKey(d)))
	}

	h.send(ctx, chatID, fmt.Sprintf("Выберите дату (1–%d):\n%s\n\nИли введите дату в формате YYYY-MM-DD",
		cfg.AdvanceDays+1, strings.Join(lines, "\n")))
}

// handleChooseDate шаг CHOOSE_DATE: номер из списка или дата YYYY-MM-DD.
// Дата без слотов или полностью занятая не продвигает диалог.
func (h *Handlers) handleChooseDate(ctx context.Context, chatID int64, s *state.Session, text string) {
	cfg := h.bookings.Config()
	cal := h.bookings.Calendar()
	today := cal.StartOfDay(time.Now())

	var date time.Time
	switch {
	case isIndex(text, cfg.AdvanceDays+1):
		n, _ := strconv.Atoi(text)
		date = today.AddDate(0, 0, n-1)
	case dateRe.MatchString(text):
		parsed, err := cal.ParseDate(text)
		if err != nil {
			h.send(ctx, chatID, fmt.Sprintf("Не понял дату. Введите номер (1–%d) или YYYY-MM-DD", cfg.AdvanceDays+1))
			return
		}
		date = parsed
	default:
		h.send(ctx, chatID, fmt.Sprintf("Не понял дату. Введите номер (1–%d) или YYYY-MM-DD", cfg.AdvanceDays+1))
		return
	}

	all, err := h.bookings.SlotsForDate(ctx, date)
	if err != nil {
		h.logger.Error("Failed to build slots", zap.Error(err))
		h.send(ctx, chatID, "⚠️ Не получилось проверить слоты. Попробуйте ещё раз.")
		return
	}

	if len(all) == 0 {
		h.send(ctx, chatID, fmt.Sprintf("На %s нет слотов (проверь часы работы). Выберите другую дату.", h.FmtDate(date)))
		return
	}

	// Полностью занятые слоты клиенту не показываем
	var available []service.SlotAvailability
	for _, sa := range all {
		if sa.Free > 0 {
			available = append(available, sa)
		}
	}

	if len(available) == 0 {
		h.send(ctx, chatID, fmt.Sprintf("На %s всё занято. Выберите другую дату.", h.FmtDate(date)))
		return
	}

	s.DateISO = date.Format("2006-01-02")
	s.Step = state.StepChooseSlot
	s.AvailableSlots = s.AvailableSlots[:0]

	// Кэшируем все доступные слоты, а в сообщение кладём только первые
	// MaxShownSlots — выбрать по номеру можно любой слот дня
	var lines []string
	for i, sa := range available {
		s.AvailableSlots = append(s.AvailableSlots, sa.Slot)
		if i >= MaxShownSlots {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d) %s (свободно: %d/%d)",
			i+1, h.FmtSlot(sa.Slot), sa.Free, h.bookings.Config().CabinCount))
	}

	h.send(ctx, chatID, fmt.Sprintf("Доступные слоты на %s:\n%s\n\nВыберите номер слота",
		h.FmtDate(date), strings.Join(lines, "\n")))
}

// handleChooseSlot шаг CHOOSE_SLOT: номер слота из показанного списка
func (h *Handlers) handleChooseSlot(ctx context.Context, chatID int64, s *state.Session, text string) {
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 1 || idx > len(s.AvailableSlots) {
		h.send(ctx, chatID, "Выберите номер слота из списка.")
		return
	}

	slot := s.AvailableSlots[idx-1]

	freeCabins, err := h.bookings.FreeCabins(ctx, slot)
	if err != nil {
		h.logger.Error("Failed to list free cabins", zap.Error(err))
		h.send(ctx, chatID, "⚠️ Не получилось проверить кабинки. Попробуйте ещё раз.")
		return
	}

	if len(freeCabins) == 0 {
		// Пока выбирали — слот успели разобрать целиком
		s.Reset()
		h.send(ctx, chatID, "Упс, этот слот только что заняли. Напиши /book чтобы начать заново.")
		return
	}

	s.SlotStart = slot.StartTime
	s.SlotEnd = slot.EndTime
	s.Step = state.StepChooseCabin
	s.FreeCabins = freeCabins

	h.send(ctx, chatID, fmt.Sprintf("Выбран слот: %s %s\nСвободные кабинки: %s\n\nНапишите номер кабинки",
		s.DateISO, h.FmtSlot(slot), joinInts(freeCabins)))
}

// handleChooseCabin шаг CHOOSE_CABIN: номер из списка свободных кабинок
func (h *Handlers) handleChooseCabin(ctx context.Context, chatID int64, s *state.Session, text string) {
	cabin, err := strconv.Atoi(text)
	if err != nil || !containsInt(s.FreeCabins, cabin) {
		h.send(ctx, chatID, fmt.Sprintf("Выберите кабинку из доступных: %s", joinInts(s.FreeCabins)))
		return
	}

	s.CabinNumber = cabin
	s.Step = state.StepChoosePeople

	slot := model.Slot{StartTime: s.SlotStart, EndTime: s.SlotEnd}
	h.send(ctx, chatID, fmt.Sprintf("Выбран слот: %s %s\nКабинка: %d\n\nСколько человек? (1 или больше)",
		s.DateISO, h.FmtSlot(slot), s.CabinNumber))
}

// handleChoosePeople шаг CHOOSE_PEOPLE: количество человек, расчёт цены
func (h *Handlers) handleChoosePeople(ctx context.Context, chatID int64, s *state.Session, text string) {
	num, err := strconv.Atoi(text)
	if err != nil || num < 1 {
		h.send(ctx, chatID, "Введите количество человек (целое число больше 0).")
		return
	}

	s.People = num
	s.TotalPrice = h.bookings.Price(num)
	s.Step = state.StepConfirm

	slot := model.Slot{StartTime: s.SlotStart, EndTime: s.SlotEnd}
	h.send(ctx, chatID, fmt.Sprintf(
		"Подтвердите бронь:\n"+
			"• Дата: %s\n"+
			"• Время: %s\n"+
			"• Кабинка: %d\n"+
			"• Количество человек: %d\n"+
			"• Стоимость: %d тенге\n\n"+
			"Ответьте: Да / Нет",
		s.DateISO, h.FmtSlot(slot), s.CabinNumber, s.People, s.TotalPrice))
}

// handleConfirm шаг CONFIRM: единственная авторитетная проверка конфликта
// выполняется в service.Create по свежему снимку хранилища
func (h *Handlers) handleConfirm(ctx context.Context, chatID int64, phone string, s *state.Session, text string) {
	lower := strings.ToLower(text)
	yes := containsString(confirmYes, lower)
	no := containsString(confirmNo, lower)

	if !yes && !no {
		h.send(ctx, chatID, `Ответьте "Да" или "Нет".`)
		return
	}

	if no {
		s.Reset()
		h.send(ctx, chatID, "Ок, отменил. Напиши /book чтобы начать заново.")
		return
	}

	booking, err := h.bookings.Create(ctx, service.CreateParams{
		Phone:       phone,
		CabinNumber: s.CabinNumber,
		StartTime:   s.SlotStart,
		EndTime:     s.SlotEnd,
		People:      s.People,
	})

	switch {
	case err == nil:
		slot := model.Slot{StartTime: booking.StartTime, EndTime: booking.EndTime}
		dateISO := s.DateISO
		s.Reset()
		h.send(ctx, chatID, fmt.Sprintf(
			"✅ Бронь создана!\n"+
				"Дата: %s\n"+
				"Время: %s\n"+
				"Кабинка: %d\n"+
				"Количество человек: %d\n"+
				"Стоимость: %d тенге\n\n"+
				"Посмотреть брони: /my",
			dateISO, h.FmtSlot(slot), booking.CabinNumber, booking.People, booking.TotalPrice))
	case errors.Is(err, service.ErrCabinBusy):
		s.Reset()
		h.send(ctx, chatID, "Упс, эту кабинку только что забронировали. Напиши /book и выбери другой слот/кабинку.")
	case errors.Is(err, service.ErrPastStart):
		s.Reset()
		h.send(ctx, chatID, "Это время уже прошло. Напиши /book и выбери слот заново.")
	default:
		// Запись не прошла — остаёмся на подтверждении, чтобы можно было
		// ответить "Да" ещё раз
		h.logger.Error("Failed to persist booking", zap.String("phone", phone), zap.Error(err))
		h.send(ctx, chatID, "⚠️ Не удалось сохранить бронь. Ответьте \"Да\" чтобы попробовать ещё раз, или \"Нет\" для отмены.")
	}
}

func isIndex(text string, max int) bool {
	n, err := strconv.Atoi(text)
	return err == nil && n >= 1 && n <= max
}
