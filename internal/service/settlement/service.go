// Package settlement implements the balance-transfer core: paying for a job
// moves the job's price from the contract's client to its contractor, and a
// deposit tops up a client's balance subject to the outstanding-debt cap.
// Every mutation runs inside a single database transaction.
package settlement

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
)

type profileRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Profile, error)
	AdjustBalance(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) error
}

type jobRepo interface {
	GetUnpaidForParty(ctx context.Context, tx *sql.Tx, jobID, profileID int64) (*domain.Job, *domain.Contract, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, jobID int64, at time.Time) error
	SumUnpaidForClient(ctx context.Context, tx *sql.Tx, clientID int64) (decimal.Decimal, error)
}

type settlementRepo interface {
	Create(ctx context.Context, tx *sql.Tx, s *domain.Settlement) error
}

type Service struct {
	profiles      profileRepo
	jobs          jobRepo
	settlements   settlementRepo
	db            *sql.DB
	depositCapPct decimal.Decimal
}

func NewService(profiles profileRepo, jobs jobRepo, settlements settlementRepo, db *sql.DB, depositCapPct float64) *Service {
	return &Service{
		profiles:      profiles,
		jobs:          jobs,
		settlements:   settlements,
		db:            db,
		depositCapPct: decimal.NewFromFloat(depositCapPct),
	}
}

// lockProfilesInOrder takes FOR UPDATE locks in ascending ID order so two
// concurrent settlements touching the same pair of profiles cannot deadlock.
func lockProfilesInOrder(ctx context.Context, tx *sql.Tx, profiles profileRepo, ids ...int64) (map[int64]*domain.Profile, error) {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	result := make(map[int64]*domain.Profile, len(ids))
	for _, id := range sorted {
		if _, ok := result[id]; ok {
			continue
		}
		p, err := profiles.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		result[id] = p
	}
	return result, nil
}
