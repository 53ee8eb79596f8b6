package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
)

// PostgresRepository хранилище броней в PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const bookingColumns = `id, phone, cabin_number, start_time, end_time, people, adults, children, total_price, status, created_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.Phone,
		&b.CabinNumber,
		&b.StartTime,
		&b.EndTime,
		&b.People,
		&b.Adults,
		&b.Children,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// List возвращает все брони
func (r *PostgresRepository) List(ctx context.Context) ([]model.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings`)
}

// Add сохраняет новую бронь
func (r *PostgresRepository) Add(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, phone, cabin_number, start_time, end_time, people, adults, children, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(
		ctx, query,
		booking.ID,
		booking.Phone,
		booking.CabinNumber,
		booking.StartTime,
		booking.EndTime,
		booking.People,
		booking.Adults,
		booking.Children,
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add booking: %w", err)
	}

	return nil
}

// RemoveByID удаляет бронь при совпадении id и phone
func (r *PostgresRepository) RemoveByID(ctx context.Context, id, phone string) (bool, error) {
	query := `DELETE FROM bookings WHERE id = $1 AND phone = $2`

	result, err := r.pool.Exec(ctx, query, id, phone)
	if err != nil {
		return false, fmt.Errorf("remove booking: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateStatus обновляет статус брони
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2
		RETURNING ` + bookingColumns

	b, err := scanBooking(r.pool.QueryRow(ctx, query, status, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return b, nil
}

// ListByPhone возвращает все брони клиента
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]model.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE phone = $1`, phone)
}

// RemoveEndedBefore удаляет брони, закончившиеся до cutoff
func (r *PostgresRepository) RemoveEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE end_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("remove ended bookings: %w", err)
	}

	return int(result.RowsAffected()), nil
}
