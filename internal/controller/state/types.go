package state

import (
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// Step текущий шаг диалога бронирования
type Step string

const (
	StepIdle         Step = "IDLE"
	StepChooseDate   Step = "CHOOSE_DATE"
	StepChooseSlot   Step = "CHOOSE_SLOT"
	StepChooseCabin  Step = "CHOOSE_CABIN"
	StepChoosePeople Step = "CHOOSE_PEOPLE"
	StepConfirm      Step = "CONFIRM"
)

// Session состояние мастера бронирования для одного чата. Живёт только в
// памяти процесса; кэши AvailableSlots и FreeCabins нужны лишь для разбора
// следующего числового ответа и не считаются авторитетными — перед записью
// занятость перепроверяется по хранилищу.
type Session struct {
	Step Step

	DateISO     string
	SlotStart   time.Time
	SlotEnd     time.Time
	CabinNumber int
	People      int
	TotalPrice  int

	AvailableSlots []model.Slot
	FreeCabins     []int
}

// Reset возвращает сессию в исходное состояние
func (s *Session) Reset() {
	*s = Session{Step: StepIdle}
}
