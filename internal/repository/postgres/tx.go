package postgres

import (
	"context"
	"database/sql"

	"tripshare/internal/repository"
)

// TxManager runs functions inside a PostgreSQL transaction, handing the
// caller transaction-scoped repositories. Any error rolls the whole
// transaction back.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// InTx implements repository.TxManager.
func (m *TxManager) InTx(ctx context.Context, fn func(r *repository.Repos) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := &repository.Repos{
		Users:     NewUserRepositoryWithTx(tx),
		Vehicles:  NewVehicleRepositoryWithTx(tx),
		Journeys:  NewJourneyRepositoryWithTx(tx),
		Bookings:  NewBookingRepositoryWithTx(tx),
		Requests:  NewRequestRepositoryWithTx(tx),
		Proposals: NewProposalRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
