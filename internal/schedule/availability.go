package schedule

import (
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd) и
// [bStart, bEnd). Интервалы, соприкасающиеся границами, не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsCabinFree сообщает, свободна ли кабинка в данном слоте
func IsCabinFree(cabin int, slot model.Slot, bookings []model.Booking) bool {
	for _, b := range bookings {
		if b.CabinNumber == cabin && Overlaps(b.StartTime, b.EndTime, slot.StartTime, slot.EndTime) {
			return false
		}
	}
	return true
}

// CountFree считает количество свободных кабинок в слоте
func CountFree(slot model.Slot, bookings []model.Booking, cabinCount int) int {
	busy := 0
	for cabin := 1; cabin <= cabinCount; cabin++ {
		if !IsCabinFree(cabin, slot, bookings) {
			busy++
		}
	}
	return cabinCount - busy
}

// FreeCabins возвращает номера свободных кабинок в слоте по возрастанию
func FreeCabins(slot model.Slot, bookings []model.Booking, cabinCount int) []int {
	var free []int
	for cabin := 1; cabin <= cabinCount; cabin++ {
		if IsCabinFree(cabin, slot, bookings) {
			free = append(free, cabin)
		}
	}
	return free
}
