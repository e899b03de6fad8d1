package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

// PayJob settles an unpaid job: the contract's client is debited the job's
// price, the contractor is credited, and the job is marked paid, all inside
// one transaction. Preconditions are checked in a fixed order so each failure
// has a distinct, stable reason.
func (s *Service) PayJob(ctx context.Context, caller *domain.Profile, jobID int64) (*domain.Job, error) {
	log := logging.FromContext(ctx)

	if caller.Type != domain.ProfileTypeClient {
		return nil, fmt.Errorf("PayJob: %w", domain.ErrInvalidProfileType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("PayJob: begin tx: %w", err)
	}
	defer tx.Rollback()

	job, contract, err := s.jobs.GetUnpaidForParty(ctx, tx, jobID, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("PayJob: %w", domain.ErrJobNotFound)
		}
		return nil, fmt.Errorf("PayJob: %w", err)
	}

	locked, err := lockProfilesInOrder(ctx, tx, s.profiles, contract.ClientID, contract.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("PayJob: %w", err)
	}
	client, contractor := locked[contract.ClientID], locked[contract.ContractorID]

	if client.Balance.LessThan(job.Price) {
		return nil, fmt.Errorf("PayJob: %w", domain.ErrInsufficientFunds)
	}

	now := time.Now().UTC()

	// Conditional update: a concurrent payment that won the race leaves
	// zero rows for us, and the whole transaction aborts.
	if err := s.jobs.MarkPaid(ctx, tx, job.ID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("PayJob: %w", domain.ErrJobNotFound)
		}
		return nil, fmt.Errorf("PayJob: mark paid: %w", err)
	}

	if err := s.profiles.AdjustBalance(ctx, tx, contractor.ID, job.Price); err != nil {
		return nil, fmt.Errorf("PayJob: credit contractor: %w", err)
	}
	if err := s.profiles.AdjustBalance(ctx, tx, client.ID, job.Price.Neg()); err != nil {
		return nil, fmt.Errorf("PayJob: debit client: %w", err)
	}

	if err := s.settlements.Create(ctx, tx, &domain.Settlement{
		ID:            uuid.New(),
		Kind:          domain.SettlementKindJobPayment,
		JobID:         &job.ID,
		FromProfileID: &client.ID,
		ToProfileID:   contractor.ID,
		Amount:        job.Price,
		CreatedAt:     now,
	}); err != nil {
		return nil, fmt.Errorf("PayJob: record settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("PayJob: commit: %w", err)
	}

	job.Paid = true
	job.PaymentDate = &now

	log.Info("job paid",
		"job_id", job.ID,
		"contract_id", contract.ID,
		"client_id", client.ID,
		"contractor_id", contractor.ID,
		"amount", job.Price,
	)

	return job, nil
}
