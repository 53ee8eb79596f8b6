package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

func newBooking(id, phone string, cabin int, start time.Time) model.Booking {
	return model.Booking{
		ID:          id,
		Phone:       phone,
		CabinNumber: cabin,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		People:      2,
		TotalPrice:  6000,
		Status:      model.BookingStatusPending,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

// Контрактный тест: file и memory реализации должны вести себя одинаково
func TestRepositories(t *testing.T) {
	impls := map[string]func(t *testing.T) BookingRepository{
		"memory": func(t *testing.T) BookingRepository {
			return NewMemoryRepository()
		},
		"file": func(t *testing.T) BookingRepository {
			return NewFileRepository(filepath.Join(t.TempDir(), "bookings.json"))
		},
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

			t.Run("пустое хранилище", func(t *testing.T) {
				repo := newRepo(t)

				list, err := repo.List(ctx)
				require.NoError(t, err)
				assert.Empty(t, list)
			})

			t.Run("add и list", func(t *testing.T) {
				repo := newRepo(t)

				b := newBooking("b1", "700111", 1, start)
				require.NoError(t, repo.Add(ctx, &b))

				list, err := repo.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 1)
				assert.Equal(t, "b1", list[0].ID)
				assert.Equal(t, 1, list[0].CabinNumber)
				assert.True(t, list[0].StartTime.Equal(start))
			})

			t.Run("удаление проверяет владельца", func(t *testing.T) {
				repo := newRepo(t)

				b := newBooking("b1", "700111", 1, start)
				require.NoError(t, repo.Add(ctx, &b))

				// Чужой phone — удаления нет
				removed, err := repo.RemoveByID(ctx, "b1", "700222")
				require.NoError(t, err)
				assert.False(t, removed)

				byPhone, err := repo.ListByPhone(ctx, "700111")
				require.NoError(t, err)
				assert.Len(t, byPhone, 1)

				// Владелец — удаление проходит
				removed, err = repo.RemoveByID(ctx, "b1", "700111")
				require.NoError(t, err)
				assert.True(t, removed)

				byPhone, err = repo.ListByPhone(ctx, "700111")
				require.NoError(t, err)
				assert.Empty(t, byPhone)

				// Повторное удаление идемпотентно
				removed, err = repo.RemoveByID(ctx, "b1", "700111")
				require.NoError(t, err)
				assert.False(t, removed)
			})

			t.Run("update status", func(t *testing.T) {
				repo := newRepo(t)

				b := newBooking("b1", "700111", 1, start)
				require.NoError(t, repo.Add(ctx, &b))

				updated, err := repo.UpdateStatus(ctx, "b1", model.BookingStatusPaid)
				require.NoError(t, err)
				assert.Equal(t, model.BookingStatusPaid, updated.Status)

				list, err := repo.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 1)
				assert.Equal(t, model.BookingStatusPaid, list[0].Status)

				_, err = repo.UpdateStatus(ctx, "missing", model.BookingStatusPaid)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("чистка завершённых броней", func(t *testing.T) {
				repo := newRepo(t)

				old := newBooking("b1", "700111", 1, start)
				fresh := newBooking("b2", "700111", 2, start.AddDate(0, 2, 0))
				require.NoError(t, repo.Add(ctx, &old))
				require.NoError(t, repo.Add(ctx, &fresh))

				removed, err := repo.RemoveEndedBefore(ctx, start.AddDate(0, 1, 0))
				require.NoError(t, err)
				assert.Equal(t, 1, removed)

				list, err := repo.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 1)
				assert.Equal(t, "b2", list[0].ID)

				// Повторная чистка ничего не находит
				removed, err = repo.RemoveEndedBefore(ctx, start.AddDate(0, 1, 0))
				require.NoError(t, err)
				assert.Zero(t, removed)
			})

			t.Run("list by phone фильтрует", func(t *testing.T) {
				repo := newRepo(t)

				b1 := newBooking("b1", "700111", 1, start)
				b2 := newBooking("b2", "700222", 2, start)
				b3 := newBooking("b3", "700111", 3, start.Add(2*time.Hour))
				require.NoError(t, repo.Add(ctx, &b1))
				require.NoError(t, repo.Add(ctx, &b2))
				require.NoError(t, repo.Add(ctx, &b3))

				byPhone, err := repo.ListByPhone(ctx, "700111")
				require.NoError(t, err)
				assert.Len(t, byPhone, 2)
			})
		})
	}
}

// Файл переживает пересоздание репозитория
func TestFileRepositoryPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookings.json")

	first := NewFileRepository(path)
	b := newBooking("b1", "700111", 2, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, first.Add(ctx, &b))

	second := NewFileRepository(path)
	list, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b1", list[0].ID)
	assert.Equal(t, 2, list[0].CabinNumber)
}
