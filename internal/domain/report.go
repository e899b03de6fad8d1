package domain

import "github.com/shopspring/decimal"

// ProfessionEarnings is the result row of the best-profession report.
type ProfessionEarnings struct {
	Profession  string
	TotalEarned decimal.Decimal
}

// ClientSpend is a result row of the best-clients report.
type ClientSpend struct {
	ID       int64
	FullName string
	Paid     decimal.Decimal
}
