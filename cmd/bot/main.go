package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/api"
	"github.com/Azemoten/sauna-booking-bot/internal/app"
	"github.com/Azemoten/sauna-booking-bot/internal/config"
	"github.com/Azemoten/sauna-booking-bot/internal/controller"
	"github.com/Azemoten/sauna-booking-bot/internal/repository"
	"github.com/Azemoten/sauna-booking-bot/internal/schedule"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

const bookingsFile = "bookings.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting sauna booking bot",
		zap.String("environment", cfg.Environment),
		zap.Int("cabins", cfg.Booking.CabinCount),
		zap.String("timezone", cfg.Booking.Timezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище: PostgreSQL при заданном DB_DSN, иначе JSON файл
	var repo repository.BookingRepository
	if cfg.DBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to create database pool", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("Failed to ping database", zap.Error(err))
		}

		migrator, err := app.NewMigrator(pool, "migrations", logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		repo = repository.NewPostgresRepository(pool)
		logger.Info("✅ Using PostgreSQL storage")
	} else {
		repo = repository.NewFileRepository(bookingsFile)
		logger.Info("✅ Using file storage", zap.String("path", bookingsFile))
	}

	cal := schedule.NewCalendar(cfg.Booking, cfg.Location())
	bookingService := service.NewBookingService(repo, cal, cfg.Booking, logger)

	janitor := app.NewJanitor(bookingService, logger)
	janitor.Start(ctx)
	defer janitor.Stop()

	// Админка поднимается отдельным HTTP сервером
	adminServer := &http.Server{
		Addr:    cfg.AdminAddr,
		Handler: api.NewRouter(api.NewHandler(bookingService, logger), logger),
	}

	go func() {
		logger.Info("Starting admin API", zap.String("addr", cfg.AdminAddr))
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Admin API server failed", zap.Error(err))
			stop()
		}
	}()

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(botInstance, bookingService, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Error("Failed to register bot handlers", zap.Error(err))
	}

	// Блокируется до отмены контекста
	botController.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Admin API shutdown failed", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
