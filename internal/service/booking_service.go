package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/config"
	"github.com/Azemoten/sauna-booking-bot/internal/model"
	"github.com/Azemoten/sauna-booking-bot/internal/repository"
	"github.com/Azemoten/sauna-booking-bot/internal/schedule"
)

var (
	// ErrPastStart время начала в прошлом (или прямо сейчас)
	ErrPastStart = errors.New("booking start time is not in the future")
	// ErrCabinBusy кабинка уже занята на пересекающийся интервал
	ErrCabinBusy = errors.New("cabin is already booked for this time")
	// ErrInvalidCabin номер кабинки вне диапазона 1..cabinCount
	ErrInvalidCabin = errors.New("invalid cabin number")
	// ErrInvalidPeople количество человек меньше одного
	ErrInvalidPeople = errors.New("invalid number of people")
	// ErrInvalidDuration длительность брони не равна длине слота
	ErrInvalidDuration = errors.New("booking duration must equal slot length")
)

// BookingService доменная логика бронирования: валидация, расчёт цены,
// проверка конфликтов поверх хранилища.
type BookingService struct {
	repo   repository.BookingRepository
	cal    *schedule.Calendar
	cfg    config.BookingConfig
	logger *zap.Logger

	// Сериализует проверку конфликта и запись: хранилище само не блокирует,
	// поэтому check-then-write должен быть атомарным внутри процесса.
	mu sync.Mutex
}

func NewBookingService(
	repo repository.BookingRepository,
	cal *schedule.Calendar,
	cfg config.BookingConfig,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:   repo,
		cal:    cal,
		cfg:    cfg,
		logger: logger,
	}
}

// Config возвращает доменную конфигурацию
func (s *BookingService) Config() config.BookingConfig {
	return s.cfg
}

// Calendar возвращает календарь слотов
func (s *BookingService) Calendar() *schedule.Calendar {
	return s.cal
}

// Price считает стоимость: один человек — фиксированный тариф,
// двое и больше — тариф с человека
func (s *BookingService) Price(people int) int {
	if people == 1 {
		return s.cfg.PriceSingle
	}
	return people * s.cfg.PricePerPerson
}

// SlotAvailability слот вместе с количеством свободных кабинок
type SlotAvailability struct {
	Slot model.Slot `json:"slot"`
	Free int        `json:"free"`
}

// SlotsForDate возвращает все слоты даты с количеством свободных кабинок
func (s *BookingService) SlotsForDate(ctx context.Context, date time.Time) ([]SlotAvailability, error) {
	slots := s.cal.BuildSlots(date)
	if len(slots) == 0 {
		return nil, nil
	}

	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		out = append(out, SlotAvailability{
			Slot: slot,
			Free: schedule.CountFree(slot, bookings, s.cfg.CabinCount),
		})
	}

	return out, nil
}

// AvailableSlots возвращает только слоты даты с хотя бы одной свободной
// кабинкой. Полностью занятые слоты клиенту не показываются.
func (s *BookingService) AvailableSlots(ctx context.Context, date time.Time) ([]SlotAvailability, error) {
	all, err := s.SlotsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	var available []SlotAvailability
	for _, sa := range all {
		if sa.Free > 0 {
			available = append(available, sa)
		}
	}

	return available, nil
}

// FreeCabins возвращает свободные кабинки для слота по свежему снимку броней
func (s *BookingService) FreeCabins(ctx context.Context, slot model.Slot) ([]int, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return schedule.FreeCabins(slot, bookings, s.cfg.CabinCount), nil
}

// CreateParams параметры создания брони
type CreateParams struct {
	Phone       string
	CabinNumber int
	StartTime   time.Time
	EndTime     time.Time
	People      int
	Adults      int
	Children    int

	// TotalPrice явная цена от доверенного вызывающего (админка);
	// nil — цена считается по тарифу
	TotalPrice *int
}

// Create валидирует и сохраняет бронь. Проверка занятости кабинки идёт по
// свежему снимку хранилища непосредственно перед записью — это единственная
// авторитетная проверка конфликта для всех путей создания.
func (s *BookingService) Create(ctx context.Context, p CreateParams) (*model.Booking, error) {
	if p.People < 1 {
		return nil, ErrInvalidPeople
	}
	if p.CabinNumber < 1 || p.CabinNumber > s.cfg.CabinCount {
		return nil, ErrInvalidCabin
	}
	if p.EndTime.Sub(p.StartTime) != time.Duration(s.cfg.SlotMinutes)*time.Minute {
		return nil, ErrInvalidDuration
	}
	if !p.StartTime.After(time.Now()) {
		return nil, ErrPastStart
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	slot := model.Slot{StartTime: p.StartTime, EndTime: p.EndTime}
	if !schedule.IsCabinFree(p.CabinNumber, slot, bookings) {
		return nil, ErrCabinBusy
	}

	price := s.Price(p.People)
	if p.TotalPrice != nil {
		price = *p.TotalPrice
	}

	booking := &model.Booking{
		ID:          uuid.NewString(),
		Phone:       p.Phone,
		CabinNumber: p.CabinNumber,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		People:      p.People,
		Adults:      p.Adults,
		Children:    p.Children,
		TotalPrice:  price,
		Status:      model.BookingStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Add(ctx, booking); err != nil {
		return nil, fmt.Errorf("add booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("phone", booking.Phone),
		zap.Int("cabin", booking.CabinNumber),
		zap.Time("start", booking.StartTime),
		zap.Int("people", booking.People),
		zap.Int("total_price", booking.TotalPrice),
	)

	return booking, nil
}

// ListAll возвращает все брони
func (s *BookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.repo.List(ctx)
}

// ListByPhone возвращает брони клиента, отсортированные по времени начала
func (s *BookingService) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
	bookings, err := s.repo.ListByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list bookings by phone: %w", err)
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].StartTime.Before(bookings[j].StartTime)
	})

	return bookings, nil
}

// CancelByOrdinal отменяет n-ю бронь клиента (нумерация как в выдаче /my,
// по времени начала, с единицы)
func (s *BookingService) CancelByOrdinal(ctx context.Context, phone string, n int) error {
	bookings, err := s.ListByPhone(ctx, phone)
	if err != nil {
		return err
	}

	if n < 1 || n > len(bookings) {
		return repository.ErrNotFound
	}

	return s.removeOwned(ctx, bookings[n-1].ID, phone)
}

// Remove удаляет бронь по id с проверкой владельца
func (s *BookingService) Remove(ctx context.Context, id, phone string) error {
	return s.removeOwned(ctx, id, phone)
}

func (s *BookingService) removeOwned(ctx context.Context, id, phone string) error {
	removed, err := s.repo.RemoveByID(ctx, id, phone)
	if err != nil {
		return fmt.Errorf("remove booking: %w", err)
	}
	if !removed {
		return repository.ErrNotFound
	}

	s.logger.Info("Booking canceled",
		zap.String("booking_id", id),
		zap.String("phone", phone),
	)

	return nil
}

// PurgeEnded удаляет брони, закончившиеся раньше чем keepFor назад.
// Возвращает количество удалённых.
func (s *BookingService) PurgeEnded(ctx context.Context, keepFor time.Duration) (int, error) {
	cutoff := time.Now().Add(-keepFor)

	removed, err := s.repo.RemoveEndedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge ended bookings: %w", err)
	}

	if removed > 0 {
		s.logger.Info("Ended bookings purged",
			zap.Int("removed", removed),
			zap.Time("cutoff", cutoff),
		)
	}

	return removed, nil
}

// UpdateStatus переводит бронь в статус pending или paid
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	booking, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking status updated",
		zap.String("booking_id", id),
		zap.String("status", string(status)),
	)

	return booking, nil
}
