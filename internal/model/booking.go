package model

import "time"

type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pending" // Ожидает оплаты
	BookingStatusPaid    BookingStatus = "paid"    // Оплачено
)

// IsValid проверяет что статус один из допустимых
func (s BookingStatus) IsValid() bool {
	return s == BookingStatusPending || s == BookingStatusPaid
}

// Booking подтверждённая бронь кабинки
type Booking struct {
	ID          string        `json:"id"`
	Phone       string        `json:"phone"` // Стабильный идентификатор клиента
	CabinNumber int           `json:"cabin_number"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	People      int           `json:"people"`
	Adults      int           `json:"adults,omitempty"`
	Children    int           `json:"children,omitempty"`
	TotalPrice  int           `json:"total_price"` // В тенге
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
