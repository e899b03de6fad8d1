package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a unit of billable work under a contract. A job transitions from
// unpaid to paid exactly once; PaymentDate records when that transfer
// committed.
type Job struct {
	ID          int64
	ContractID  int64
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaymentDate *time.Time
	CreatedAt   time.Time
}
