package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// FileRepository хранит брони в одном JSON файле с полной перезаписью при
// каждом изменении. Подходит для небольших инсталляций без PostgreSQL.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) readAll() ([]model.Booking, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bookings file: %w", err)
	}

	var bookings []model.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings file: %w", err)
	}

	return bookings, nil
}

func (r *FileRepository) writeAll(bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}

	raw, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookings: %w", err)
	}

	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write bookings file: %w", err)
	}

	return nil
}

// List возвращает все брони
func (r *FileRepository) List(ctx context.Context) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readAll()
}

// Add добавляет бронь в конец файла
func (r *FileRepository) Add(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.readAll()
	if err != nil {
		return err
	}

	return r.writeAll(append(bookings, *booking))
}

// RemoveByID удаляет бронь при совпадении id и phone
func (r *FileRepository) RemoveByID(ctx context.Context, id, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.readAll()
	if err != nil {
		return false, err
	}

	filtered := bookings[:0]
	for _, b := range bookings {
		if b.ID == id && b.Phone == phone {
			continue
		}
		filtered = append(filtered, b)
	}

	if len(filtered) == len(bookings) {
		return false, nil
	}

	if err := r.writeAll(filtered); err != nil {
		return false, err
	}

	return true, nil
}

// UpdateStatus обновляет статус брони
func (r *FileRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.readAll()
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		if bookings[i].ID == id {
			bookings[i].Status = status
			if err := r.writeAll(bookings); err != nil {
				return nil, err
			}
			updated := bookings[i]
			return &updated, nil
		}
	}

	return nil, ErrNotFound
}

// RemoveEndedBefore удаляет брони, закончившиеся до cutoff
func (r *FileRepository) RemoveEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.readAll()
	if err != nil {
		return 0, err
	}

	kept := bookings[:0]
	for _, b := range bookings {
		if b.EndTime.Before(cutoff) {
			continue
		}
		kept = append(kept, b)
	}

	removed := len(bookings) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := r.writeAll(kept); err != nil {
		return 0, err
	}

	return removed, nil
}

// ListByPhone возвращает все брони клиента
func (r *FileRepository) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.readAll()
	if err != nil {
		return nil, err
	}

	var filtered []model.Booking
	for _, b := range bookings {
		if b.Phone == phone {
			filtered = append(filtered, b)
		}
	}

	return filtered, nil
}
