package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gigboard/marketplace-api/internal/domain"
)

type SettlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

// Create writes the settlement row inside the caller's transaction so it
// commits or rolls back with the balance mutations it describes.
func (r *SettlementRepository) Create(ctx context.Context, tx *sql.Tx, s *domain.Settlement) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO settlements (
			id, kind, job_id, from_profile_id, to_profile_id, amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Kind, s.JobID, s.FromProfileID, s.ToProfileID, s.Amount, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
