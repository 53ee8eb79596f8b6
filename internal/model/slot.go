package model

import "time"

// Slot временной интервал внутри рабочего дня.
// Слоты не хранятся в БД — пересчитываются на каждый запрос.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
