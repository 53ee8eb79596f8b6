package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// ErrNotFound бронь не найдена (или id/phone не совпали)
var ErrNotFound = errors.New("booking not found")

// BookingRepository единственный интерфейс к авторитетному списку броней.
// Хранилище не выполняет доменную валидацию — проверка конфликтов лежит на
// вызывающем коде (service). Ошибки персистентности всегда пробрасываются.
type BookingRepository interface {
	// List возвращает полный снимок всех броней (порядок не гарантируется)
	List(ctx context.Context) ([]model.Booking, error)

	// Add добавляет бронь. Ошибка записи никогда не проглатывается.
	Add(ctx context.Context, booking *model.Booking) error

	// RemoveByID удаляет бронь только при совпадении id и phone
	// (проверка владельца). Возвращает произошло ли удаление.
	RemoveByID(ctx context.Context, id, phone string) (bool, error)

	// UpdateStatus меняет статус брони. ErrNotFound если брони нет.
	UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)

	// ListByPhone возвращает все брони клиента
	ListByPhone(ctx context.Context, phone string) ([]model.Booking, error)

	// RemoveEndedBefore удаляет брони, закончившиеся до cutoff.
	// Возвращает количество удалённых.
	RemoveEndedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
