package schedule

import (
	"fmt"
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/config"
	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// maxSlotsPerDay защита от некорректной конфигурации (например, слишком
// короткий слот): генерация молча обрезается на этой границе.
const maxSlotsPerDay = 200

// Calendar строит рабочие диапазоны и слоты по недельным часам работы
type Calendar struct {
	loc         *time.Location
	slotMinutes int
	rules       map[string]config.HoursRule
}

func NewCalendar(bc config.BookingConfig, loc *time.Location) *Calendar {
	return &Calendar{
		loc:         loc,
		slotMinutes: bc.SlotMinutes,
		rules:       bc.OpeningHours,
	}
}

// WeekdayKey возвращает ключ дня недели в формате конфигурации (sun..sat)
func WeekdayKey(t time.Time) string {
	keys := [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	return keys[int(t.Weekday())]
}

// ParseDate разбирает дату YYYY-MM-DD в полночь таймзоны календаря
func (c *Calendar) ParseDate(dateISO string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", dateISO, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", dateISO, err)
	}
	return d, nil
}

// StartOfDay усекает момент времени до полуночи в таймзоне календаря
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// Location возвращает таймзону календаря
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// SlotMinutes возвращает настроенную длину слота
func (c *Calendar) SlotMinutes() int {
	return c.slotMinutes
}

// WorkingRange возвращает рабочий диапазон [open, close) для календарной даты.
// ok == false означает выходной (правила для этого дня недели нет) — это не
// ошибка, для такого дня просто нет слотов.
// Если close <= open, закрытие переносится на следующий календарный день
// (часы работы вида 22:00–02:00).
func (c *Calendar) WorkingRange(date time.Time) (open, close time.Time, ok bool) {
	day := c.StartOfDay(date)

	rule, exists := c.rules[WeekdayKey(day)]
	if !exists {
		return time.Time{}, time.Time{}, false
	}

	open, err := atDayTime(day, rule.Open)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	close, err = atDayTime(day, rule.Close)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	if !close.After(open) {
		close = close.AddDate(0, 0, 1)
	}

	return open, close, true
}

// BuildSlots разбивает рабочий диапазон даты на непрерывные слоты фиксированной
// длины. Неполный хвост перед закрытием отбрасывается. Для выходного дня
// возвращает пустой список.
func (c *Calendar) BuildSlots(date time.Time) []model.Slot {
	open, close, ok := c.WorkingRange(date)
	if !ok {
		return nil
	}

	length := time.Duration(c.slotMinutes) * time.Minute

	var slots []model.Slot
	cursor := open
	for {
		end := cursor.Add(length)
		if end.After(close) {
			break
		}
		slots = append(slots, model.Slot{StartTime: cursor, EndTime: end})
		cursor = end
		if len(slots) >= maxSlotsPerDay {
			break
		}
	}

	return slots
}

// atDayTime собирает момент "дата + wall-clock HH:MM" в таймзоне дня
func atDayTime(day time.Time, hhmm string) (time.Time, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return time.Time{}, fmt.Errorf("parse time of day %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("time of day %q out of range", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
