package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tripshare/internal/domain"
	"tripshare/internal/repository"
)

// ProposalRepository is a PostgreSQL implementation of repository.ProposalRepository.
type ProposalRepository struct {
	q Querier
}

// NewProposalRepository creates a new PostgreSQL proposal repository.
func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{q: db}
}

// NewProposalRepositoryWithTx creates a proposal repository using a transaction.
func NewProposalRepositoryWithTx(tx *sql.Tx) *ProposalRepository {
	return &ProposalRepository{q: tx}
}

const proposalColumns = `id, request_id, driver_id, vehicle_id, status, price_offered, created_at`

// Create persists a new proposal.
func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	query := `
		INSERT INTO proposals (` + proposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		proposal.ID,
		proposal.RequestID,
		proposal.DriverID,
		proposal.VehicleID,
		proposal.Status,
		proposal.PriceOffered,
		proposal.CreatedAt,
	)

	return err
}

// GetByID retrieves a proposal by ID.
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`

	var proposal domain.Proposal
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&proposal.ID,
		&proposal.RequestID,
		&proposal.DriverID,
		&proposal.VehicleID,
		&proposal.Status,
		&proposal.PriceOffered,
		&proposal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

// ListByRequest retrieves all proposals against a journey request, newest first.
func (r *ProposalRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE request_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		var proposal domain.Proposal
		if err := rows.Scan(
			&proposal.ID,
			&proposal.RequestID,
			&proposal.DriverID,
			&proposal.VehicleID,
			&proposal.Status,
			&proposal.PriceOffered,
			&proposal.CreatedAt,
		); err != nil {
			return nil, err
		}
		proposals = append(proposals, &proposal)
	}
	return proposals, rows.Err()
}

// HasSentByDriver reports whether the driver already has a SENT proposal for
// the journey request.
func (r *ProposalRepository) HasSentByDriver(ctx context.Context, requestID, driverID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM proposals
			WHERE request_id = $1 AND driver_id = $2 AND status = $3
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, requestID, driverID, domain.ProposalStatusSent).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateStatus updates the status of a proposal.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error {
	query := `UPDATE proposals SET status = $1 WHERE id = $2`

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
