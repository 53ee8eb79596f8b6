package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// MemoryRepository хранилище броней в памяти, используется в тестах
type MemoryRepository struct {
	mu       sync.Mutex
	bookings []model.Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(ctx context.Context) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

func (r *MemoryRepository) Add(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings = append(r.bookings, *booking)
	return nil
}

func (r *MemoryRepository) RemoveByID(ctx context.Context, id, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range r.bookings {
		if b.ID == id && b.Phone == phone {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = status
			updated := r.bookings[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) RemoveEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.bookings[:0]
	for _, b := range r.bookings {
		if b.EndTime.Before(cutoff) {
			continue
		}
		kept = append(kept, b)
	}

	removed := len(r.bookings) - len(kept)
	r.bookings = kept
	return removed, nil
}

func (r *MemoryRepository) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []model.Booking
	for _, b := range r.bookings {
		if b.Phone == phone {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}
