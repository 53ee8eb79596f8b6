package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// FmtDate форматирует дату для клиента: 02.01.2006
func (h *Handlers) FmtDate(t time.Time) string {
	return t.In(h.bookings.Calendar().Location()).Format("02.01.2006")
}

// FmtSlot форматирует интервал слота: 10:00–11:00
func (h *Handlers) FmtSlot(slot model.Slot) string {
	loc := h.bookings.Calendar().Location()
	return slot.StartTime.In(loc).Format("15:04") + "–" + slot.EndTime.In(loc).Format("15:04")
}

// FormatBookingLine одна строка брони в выдаче /my
func (h *Handlers) FormatBookingLine(index int, b model.Booking) string {
	line := fmt.Sprintf("%d) %s %s, кабинка %d, %d чел., %d тенге",
		index+1,
		h.FmtDate(b.StartTime),
		h.FmtSlot(model.Slot{StartTime: b.StartTime, EndTime: b.EndTime}),
		b.CabinNumber,
		b.People,
		b.TotalPrice,
	)
	if b.Status == model.BookingStatusPaid {
		line += " (оплачено)"
	}
	return line
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, item := range list {
		if item == n {
			return true
		}
	}
	return false
}

func helpText() string {
	return "Команды:\n" +
		"• /book, бронь, забронировать, бронировать — забронировать\n" +
		"• /my — мои брони\n" +
		"• /cancel <номер>, отмена <номер>, отменить <номер>, отказ <номер>, возврат <номер> — отменить бронь\n" +
		"• /today — свободные слоты на сегодня\n" +
		"• /reset — сброс диалога\n" +
		"• /help — помощь"
}
