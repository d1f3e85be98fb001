package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL journey request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `id, requester_id, type, status,
	origin_name, origin_lat, origin_lng,
	destination_name, destination_lat, destination_lng,
	requested_time, requested_seats,
	package_weight_kg, package_length_cm, package_width_cm, package_height_cm,
	proposed_price, created_at`

// Create persists a new journey request.
func (r *RequestRepository) Create(ctx context.Context, request *domain.JourneyRequest) error {
	query := `
		INSERT INTO journey_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var seats sql.NullInt64
	if request.Type == domain.JourneyTypeCarpool {
		seats = sql.NullInt64{Int64: int64(request.RequestedSeats), Valid: true}
	}

	var weight, length, width, height sql.NullFloat64
	if request.Package != nil {
		weight = sql.NullFloat64{Float64: request.Package.WeightKg, Valid: true}
		length = sql.NullFloat64{Float64: request.Package.LengthCm, Valid: true}
		width = sql.NullFloat64{Float64: request.Package.WidthCm, Valid: true}
		height = sql.NullFloat64{Float64: request.Package.HeightCm, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		request.ID,
		request.RequesterID,
		request.Type,
		request.Status,
		request.Origin.Name,
		request.Origin.Lat,
		request.Origin.Lng,
		request.Destination.Name,
		request.Destination.Lat,
		request.Destination.Lng,
		request.RequestedTime,
		seats,
		weight,
		length,
		width,
		height,
		request.ProposedPrice,
		request.CreatedAt,
	)

	return err
}

// GetByID retrieves a journey request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.JourneyRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM journey_requests WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a journey request by ID holding a row lock.
// Inside a transaction the lock serializes concurrent proposals against the
// same request until commit or rollback.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.JourneyRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM journey_requests WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// UpdateStatus updates the status of a journey request.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	query := `UPDATE journey_requests SET status = $1 WHERE id = $2`

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

func (r *RequestRepository) getOne(ctx context.Context, query, id string) (*domain.JourneyRequest, error) {
	var request domain.JourneyRequest
	var seats sql.NullInt64
	var weight, length, width, height sql.NullFloat64

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.RequesterID,
		&request.Type,
		&request.Status,
		&request.Origin.Name,
		&request.Origin.Lat,
		&request.Origin.Lng,
		&request.Destination.Name,
		&request.Destination.Lat,
		&request.Destination.Lng,
		&request.RequestedTime,
		&seats,
		&weight,
		&length,
		&width,
		&height,
		&request.ProposedPrice,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if seats.Valid {
		request.RequestedSeats = int(seats.Int64)
	}
	if weight.Valid {
		request.Package = &domain.PackageSpec{
			WeightKg: weight.Float64,
			LengthCm: length.Float64,
			WidthCm:  width.Float64,
			HeightCm: height.Float64,
		}
	}

	return &request, nil
}
