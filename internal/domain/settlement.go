package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementKind string

const (
	SettlementKindJobPayment SettlementKind = "job_payment"
	SettlementKindDeposit    SettlementKind = "deposit"
)

// Settlement records a committed transfer of funds: either the payment of a
// job (client debited, contractor credited) or a deposit into a client's
// balance. Job payments carry the job id; a partial unique index guarantees
// at most one settlement per job.
type Settlement struct {
	ID            uuid.UUID
	Kind          SettlementKind
	JobID         *int64
	FromProfileID *int64
	ToProfileID   int64
	Amount        decimal.Decimal
	CreatedAt     time.Time
}
