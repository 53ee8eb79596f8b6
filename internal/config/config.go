package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config собирает настройки процесса: секреты из окружения,
// доменная конфигурация бронирования — из YAML файла.
type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	AdminAddr     string

	Booking BookingConfig

	location *time.Location
}

// HoursRule часы работы для одного дня недели, wall-clock "HH:MM".
// Если close <= open — рабочий диапазон переходит через полночь.
type HoursRule struct {
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close" json:"close"`
}

// BookingConfig доменные настройки бронирования
type BookingConfig struct {
	CabinCount     int                  `yaml:"cabin_count" json:"cabin_count"`
	SlotMinutes    int                  `yaml:"slot_minutes" json:"slot_minutes"`
	AdvanceDays    int                  `yaml:"advance_days" json:"advance_days"`
	PriceSingle    int                  `yaml:"price_single" json:"price_single"`         // Тариф за одного, тенге
	PricePerPerson int                  `yaml:"price_per_person" json:"price_per_person"` // Тариф с человека при 2+, тенге
	Timezone       string               `yaml:"timezone" json:"timezone"`
	OpeningHours   map[string]HoursRule `yaml:"opening_hours" json:"opening_hours"` // Ключи: sun..sat
}

var weekdayKeys = map[string]bool{
	"sun": true, "mon": true, "tue": true, "wed": true,
	"thu": true, "fri": true, "sat": true,
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		AdminAddr:     os.Getenv("ADMIN_ADDR"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = ":3000"
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	path := os.Getenv("BOOKING_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	booking, err := LoadBooking(path)
	if err != nil {
		return nil, err
	}
	cfg.Booking = *booking

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Booking.Timezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

// LoadBooking читает и валидирует доменную конфигурацию из YAML файла
func LoadBooking(path string) (*BookingConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open booking config: %w", err)
	}
	defer f.Close()

	var bc BookingConfig
	if err := yaml.NewDecoder(f).Decode(&bc); err != nil {
		return nil, fmt.Errorf("decode booking config: %w", err)
	}

	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("booking config %s: %w", path, err)
	}

	return &bc, nil
}

// Validate проверяет базовую корректность доменной конфигурации
func (bc *BookingConfig) Validate() error {
	if bc.CabinCount < 1 {
		return fmt.Errorf("cabin_count must be >= 1, got %d", bc.CabinCount)
	}
	if bc.SlotMinutes < 1 {
		return fmt.Errorf("slot_minutes must be >= 1, got %d", bc.SlotMinutes)
	}
	if bc.AdvanceDays < 0 {
		return fmt.Errorf("advance_days must be >= 0, got %d", bc.AdvanceDays)
	}
	if bc.Timezone == "" {
		return fmt.Errorf("timezone is required")
	}
	for key := range bc.OpeningHours {
		if !weekdayKeys[key] {
			return fmt.Errorf("unknown weekday key %q in opening_hours", key)
		}
	}
	return nil
}

// Location возвращает таймзону бронирования
func (c *Config) Location() *time.Location {
	return c.location
}
