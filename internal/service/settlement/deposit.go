package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

var minDeposit = decimal.NewFromInt(1)

// Deposit credits a client's balance. The amount may not exceed the deposit
// cap fraction of the client's total outstanding unpaid job prices; when the
// client owes nothing, every positive amount exceeds the cap and the deposit
// is rejected.
func (s *Service) Deposit(ctx context.Context, targetProfileID int64, amount decimal.Decimal) (*domain.Profile, error) {
	log := logging.FromContext(ctx)

	if amount.LessThan(minDeposit) {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Deposit: begin tx: %w", err)
	}
	defer tx.Rollback()

	target, err := s.profiles.GetForUpdate(ctx, tx, targetProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, fmt.Errorf("Deposit: %w", domain.ErrInvalidProfileType)
		}
		return nil, fmt.Errorf("Deposit: %w", err)
	}
	if target.Type != domain.ProfileTypeClient {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrInvalidProfileType)
	}

	totalOwed, err := s.jobs.SumUnpaidForClient(ctx, tx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	if amount.GreaterThan(totalOwed.Mul(s.depositCapPct)) {
		return nil, fmt.Errorf("Deposit: %w", domain.ErrDepositCapExceeded)
	}

	if err := s.profiles.AdjustBalance(ctx, tx, target.ID, amount); err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	now := time.Now().UTC()
	if err := s.settlements.Create(ctx, tx, &domain.Settlement{
		ID:          uuid.New(),
		Kind:        domain.SettlementKindDeposit,
		ToProfileID: target.ID,
		Amount:      amount,
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("Deposit: record settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Deposit: commit: %w", err)
	}

	target.Balance = target.Balance.Add(amount)

	log.Info("deposit completed",
		"profile_id", target.ID,
		"amount", amount,
		"total_owed", totalOwed,
	)

	return target, nil
}
