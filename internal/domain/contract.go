package domain

import "time"

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract links one client and one contractor. Status transitions happen
// outside this service; the settlement engine treats contracts as read-only.
type Contract struct {
	ID           int64
	ClientID     int64
	ContractorID int64
	Terms        string
	Status       ContractStatus
	CreatedAt    time.Time
}
