package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
)

const jobColumns = `j.id, j.contract_id, j.description, j.price, j.paid, j.payment_date, j.created_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ListUnpaidForProfile returns unpaid jobs on in-progress contracts where the
// profile is either party.
func (r *JobRepository) ListUnpaidForProfile(ctx context.Context, profileID int64) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = FALSE
		  AND c.status = 'in_progress'
		  AND (c.client_id = $1 OR c.contractor_id = $1)
		ORDER BY j.id`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListUnpaidForProfile: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUnpaidForProfile: scan: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListUnpaidForProfile: rows: %w", err)
	}
	return jobs, nil
}

// GetUnpaidForParty locks the unpaid job row inside the transaction and
// returns it with its contract. Missing, already-paid, and
// not-a-party-on-the-contract all collapse into ErrNotFound.
func (r *JobRepository) GetUnpaidForParty(ctx context.Context, tx *sql.Tx, jobID, profileID int64) (*domain.Job, *domain.Contract, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+jobColumns+`,
		        c.id, c.client_id, c.contractor_id, c.terms, c.status, c.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = $1
		  AND j.paid = FALSE
		  AND (c.client_id = $2 OR c.contractor_id = $2)
		FOR UPDATE OF j`,
		jobID, profileID,
	)

	var j domain.Job
	var c domain.Contract
	err := row.Scan(
		&j.ID, &j.ContractID, &j.Description, &j.Price, &j.Paid, &j.PaymentDate, &j.CreatedAt,
		&c.ID, &c.ClientID, &c.ContractorID, &c.Terms, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("GetUnpaidForParty: %w", domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("GetUnpaidForParty: %w", err)
	}
	return &j, &c, nil
}

// MarkPaid flips the paid flag. The AND paid = FALSE guard makes the update
// conditional: if another transaction paid the job first, zero rows are
// affected and the caller must abort.
func (r *JobRepository) MarkPaid(ctx context.Context, tx *sql.Tx, jobID int64, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE jobs SET paid = TRUE, payment_date = $1 WHERE id = $2 AND paid = FALSE`,
		at, jobID,
	)
	if err != nil {
		return fmt.Errorf("MarkPaid: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkPaid: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("MarkPaid: %w", domain.ErrNotFound)
	}
	return nil
}

// SumUnpaidForClient totals the price of every unpaid job whose contract has
// the given client. Zero when the client owes nothing.
func (r *JobRepository) SumUnpaidForClient(ctx context.Context, tx *sql.Tx, clientID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(j.price), 0) FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = $1 AND j.paid = FALSE`,
		clientID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumUnpaidForClient: %w", err)
	}
	return total, nil
}

func scanJob(s scanner) (*domain.Job, error) {
	var j domain.Job
	err := s.Scan(
		&j.ID, &j.ContractID, &j.Description, &j.Price, &j.Paid, &j.PaymentDate, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
