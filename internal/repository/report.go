package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gigboard/marketplace-api/internal/domain"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// BestProfession returns the contractor profession with the highest total of
// job prices paid inside the window.
func (r *ReportRepository) BestProfession(ctx context.Context, start, end time.Time) (*domain.ProfessionEarnings, error) {
	var pe domain.ProfessionEarnings
	err := r.db.QueryRowContext(ctx,
		`SELECT p.profession, SUM(j.price) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE AND j.payment_date >= $1 AND j.payment_date <= $2
		GROUP BY p.profession
		ORDER BY total DESC
		LIMIT 1`,
		start, end,
	).Scan(&pe.Profession, &pe.TotalEarned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("BestProfession: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("BestProfession: %w", err)
	}
	return &pe, nil
}

// BestClients returns clients ranked by the total they paid for jobs inside
// the window.
func (r *ReportRepository) BestClients(ctx context.Context, start, end time.Time, limit int) ([]domain.ClientSpend, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.first_name || ' ' || p.last_name AS full_name, SUM(j.price) AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE AND j.payment_date >= $1 AND j.payment_date <= $2
		GROUP BY p.id, full_name
		ORDER BY paid DESC, p.id
		LIMIT $3`,
		start, end, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("BestClients: %w", err)
	}
	defer rows.Close()

	var clients []domain.ClientSpend
	for rows.Next() {
		var cs domain.ClientSpend
		if err := rows.Scan(&cs.ID, &cs.FullName, &cs.Paid); err != nil {
			return nil, fmt.Errorf("BestClients: scan: %w", err)
		}
		clients = append(clients, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BestClients: rows: %w", err)
	}
	return clients, nil
}
