package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, rider_id, journey_id, seat_count, is_shipping, status,
	journey_departure_time, journey_type, journey_origin, journey_destination, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var seatCount sql.NullInt64
	if !booking.IsShipping {
		seatCount = sql.NullInt64{Int64: int64(booking.SeatCount), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.RiderID,
		booking.JourneyID,
		seatCount,
		booking.IsShipping,
		booking.Status,
		booking.Journey.DepartureTime,
		booking.Journey.Type,
		booking.Journey.Origin,
		booking.Journey.Destination,
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetActiveByRiderAndJourney retrieves the rider's non-cancelled booking for
// a journey, or nil when none exists.
func (r *BookingRepository) GetActiveByRiderAndJourney(ctx context.Context, riderID, journeyID string) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE rider_id = $1 AND journey_id = $2 AND status <> $3
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, riderID, journeyID, domain.BookingStatusCancelled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// GetActiveByRiderAndDeparture retrieves the rider's PENDING or CONFIRMED
// booking for the given departure time, or nil when none exists.
func (r *BookingRepository) GetActiveByRiderAndDeparture(ctx context.Context, riderID string, departure time.Time) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE rider_id = $1 AND journey_departure_time = $2 AND status IN ($3, $4)
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query,
		riderID, departure, domain.BookingStatusPending, domain.BookingStatusConfirmed))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// SumPendingSeats returns the total seat count over PENDING bookings for a
// journey. The aggregate is computed fresh on every call so cancelled
// bookings release their seats immediately.
func (r *BookingRepository) SumPendingSeats(ctx context.Context, journeyID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(seat_count), 0) FROM bookings
		WHERE journey_id = $1 AND status = $2
	`

	var total int
	err := r.q.QueryRowContext(ctx, query, journeyID, domain.BookingStatusPending).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// GetPendingByRider retrieves all PENDING bookings of a rider.
func (r *BookingRepository) GetPendingByRider(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE rider_id = $1 AND status = $2`
	return r.list(ctx, query, riderID, domain.BookingStatusPending)
}

// GetPendingByJourney retrieves all PENDING bookings against a journey.
func (r *BookingRepository) GetPendingByJourney(ctx context.Context, journeyID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE journey_id = $1 AND status = $2`
	return r.list(ctx, query, journeyID, domain.BookingStatusPending)
}

// ListByRiderAndJourneyStatus retrieves a rider's bookings whose journey
// currently has the given status, ordered by departure time ascending.
func (r *BookingRepository) ListByRiderAndJourneyStatus(ctx context.Context, riderID string, status domain.JourneyStatus) ([]*domain.Booking, error) {
	query := `
		SELECT b.id, b.rider_id, b.journey_id, b.seat_count, b.is_shipping, b.status,
			b.journey_departure_time, b.journey_type, b.journey_origin, b.journey_destination, b.created_at
		FROM bookings b
		JOIN journeys j ON j.id = b.journey_id
		WHERE b.rider_id = $1 AND j.status = $2
		ORDER BY b.journey_departure_time ASC
	`
	return r.list(ctx, query, riderID, status)
}

// ExistsByRiderAndJourney reports whether the rider holds any non-cancelled
// booking for the journey.
func (r *BookingRepository) ExistsByRiderAndJourney(ctx context.Context, riderID, journeyID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE rider_id = $1 AND journey_id = $2 AND status <> $3
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, riderID, journeyID, domain.BookingStatusCancelled).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus updates the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var booking domain.Booking
	var seatCount sql.NullInt64

	err := s.Scan(
		&booking.ID,
		&booking.RiderID,
		&booking.JourneyID,
		&seatCount,
		&booking.IsShipping,
		&booking.Status,
		&booking.Journey.DepartureTime,
		&booking.Journey.Type,
		&booking.Journey.Origin,
		&booking.Journey.Destination,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if seatCount.Valid {
		booking.SeatCount = int(seatCount.Int64)
	}

	return &booking, nil
}
