package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

// Сколько хранить завершённые брони до чистки
const endedRetention = 30 * 24 * time.Hour

// Janitor периодически чистит хранилище от давно завершённых броней
type Janitor struct {
	bookings *service.BookingService
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewJanitor(bookings *service.BookingService, logger *zap.Logger) *Janitor {
	return &Janitor{
		bookings: bookings,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую чистку
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting booking janitor")
	go j.run(ctx)
}

// Stop останавливает фоновую чистку
func (j *Janitor) Stop() {
	j.logger.Info("Stopping booking janitor")
	close(j.stopChan)
}

func (j *Janitor) run(ctx context.Context) {
	// Первый запуск сразу при старте
	j.purge(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.purge(ctx)
		case <-j.stopChan:
			j.logger.Info("Booking janitor stopped")
			return
		case <-ctx.Done():
			j.logger.Info("Booking janitor cancelled")
			return
		}
	}
}

func (j *Janitor) purge(ctx context.Context) {
	removed, err := j.bookings.PurgeEnded(ctx, endedRetention)
	if err != nil {
		j.logger.Error("Failed to purge ended bookings", zap.Error(err))
		return
	}

	if removed > 0 {
		j.logger.Info("Booking cleanup completed", zap.Int("removed", removed))
	}
}
