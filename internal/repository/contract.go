package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gigboard/marketplace-api/internal/domain"
)

const contractColumns = `id, client_id, contractor_id, terms, status, created_at`

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// GetByIDForProfile returns the contract only when the profile is one of its
// parties; anything else is reported as not found so callers cannot probe
// other users' contracts.
func (r *ContractRepository) GetByIDForProfile(ctx context.Context, id, profileID int64) (*domain.Contract, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM contracts
		WHERE id = $1 AND (client_id = $2 OR contractor_id = $2)`,
		id, profileID,
	)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByIDForProfile: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByIDForProfile: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) ListActiveForProfile(ctx context.Context, profileID int64) ([]domain.Contract, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM contracts
		WHERE status <> 'terminated' AND (client_id = $1 OR contractor_id = $1)
		ORDER BY id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListActiveForProfile: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActiveForProfile: scan: %w", err)
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListActiveForProfile: rows: %w", err)
	}
	return contracts, nil
}

func scanContract(s scanner) (*domain.Contract, error) {
	var c domain.Contract
	err := s.Scan(
		&c.ID, &c.ClientID, &c.ContractorID, &c.Terms, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
