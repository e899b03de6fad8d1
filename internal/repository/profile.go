package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
)

const profileColumns = `id, first_name, last_name, profession, balance, type, created_at`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

// GetForUpdate locks the profile row for the duration of the transaction.
func (r *ProfileRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Profile, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id,
	)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return p, nil
}

// AdjustBalance applies a signed delta to a profile's balance. The WHERE
// clause refuses any write that would take the balance below zero; a zero
// rows-affected result surfaces as ErrInsufficientFunds.
func (r *ProfileRepository) AdjustBalance(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET balance = balance + $1 WHERE id = $2 AND balance + $1 >= 0`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("AdjustBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("AdjustBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("AdjustBalance: %w", domain.ErrInsufficientFunds)
	}
	return nil
}

func scanProfile(s scanner) (*domain.Profile, error) {
	var p domain.Profile
	err := s.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Profession,
		&p.Balance, &p.Type, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
