package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

// Profile is a party in the marketplace: a client who pays for jobs or a
// contractor who earns from them. Balance is only ever mutated by the
// settlement engine.
type Profile struct {
	ID         int64
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Type       ProfileType
	CreatedAt  time.Time
}
