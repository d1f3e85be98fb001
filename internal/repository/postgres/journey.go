package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// JourneyRepository is a PostgreSQL implementation of repository.JourneyRepository.
type JourneyRepository struct {
	q Querier
}

// NewJourneyRepository creates a new PostgreSQL journey repository.
func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{q: db}
}

// NewJourneyRepositoryWithTx creates a journey repository using a transaction.
func NewJourneyRepositoryWithTx(tx *sql.Tx) *JourneyRepository {
	return &JourneyRepository{q: tx}
}

const journeyColumns = `id, driver_id, vehicle_id, type, status,
	origin_name, origin_lat, origin_lng,
	destination_name, destination_lat, destination_lng,
	departure_time, available_seats, price_per_seat, accepted_proposal_id, created_at`

// Create persists a new journey.
func (r *JourneyRepository) Create(ctx context.Context, journey *domain.Journey) error {
	query := `
		INSERT INTO journeys (` + journeyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var acceptedProposalID sql.NullString
	if journey.AcceptedProposalID != "" {
		acceptedProposalID = sql.NullString{String: journey.AcceptedProposalID, Valid: true}
	}

	var seats sql.NullInt64
	var price sql.NullFloat64
	if journey.Type == domain.JourneyTypeCarpool {
		seats = sql.NullInt64{Int64: int64(journey.AvailableSeats), Valid: true}
		price = sql.NullFloat64{Float64: journey.PricePerSeat, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		journey.ID,
		journey.DriverID,
		journey.VehicleID,
		journey.Type,
		journey.Status,
		journey.Origin.Name,
		journey.Origin.Lat,
		journey.Origin.Lng,
		journey.Destination.Name,
		journey.Destination.Lat,
		journey.Destination.Lng,
		journey.DepartureTime,
		seats,
		price,
		acceptedProposalID,
		journey.CreatedAt,
	)

	return err
}

// GetByID retrieves a journey by ID.
func (r *JourneyRepository) GetByID(ctx context.Context, id string) (*domain.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a journey by ID holding a row lock. When the
// repository runs inside a transaction the lock is held until commit or
// rollback, serializing concurrent capacity checks on the same journey.
func (r *JourneyRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetAll retrieves recent journeys.
func (r *JourneyRepository) GetAll(ctx context.Context) ([]*domain.Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journeys []*domain.Journey
	for rows.Next() {
		journey, err := scanJourney(rows)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, journey)
	}
	return journeys, rows.Err()
}

// UpdateStatus updates the status of a journey.
func (r *JourneyRepository) UpdateStatus(ctx context.Context, id string, status domain.JourneyStatus) error {
	query := `UPDATE journeys SET status = $1 WHERE id = $2`

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

// scanner is the subset of *sql.Row and *sql.Rows needed to scan a journey.
type scanner interface {
	Scan(dest ...any) error
}

func (r *JourneyRepository) scanOne(row *sql.Row) (*domain.Journey, error) {
	journey, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return journey, nil
}

func scanJourney(s scanner) (*domain.Journey, error) {
	var journey domain.Journey
	var seats sql.NullInt64
	var price sql.NullFloat64
	var acceptedProposalID sql.NullString

	err := s.Scan(
		&journey.ID,
		&journey.DriverID,
		&journey.VehicleID,
		&journey.Type,
		&journey.Status,
		&journey.Origin.Name,
		&journey.Origin.Lat,
		&journey.Origin.Lng,
		&journey.Destination.Name,
		&journey.Destination.Lat,
		&journey.Destination.Lng,
		&journey.DepartureTime,
		&seats,
		&price,
		&acceptedProposalID,
		&journey.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if seats.Valid {
		journey.AvailableSeats = int(seats.Int64)
	}
	if price.Valid {
		journey.PricePerSeat = price.Float64
	}
	if acceptedProposalID.Valid {
		journey.AcceptedProposalID = acceptedProposalID.String
	}

	return &journey, nil
}
