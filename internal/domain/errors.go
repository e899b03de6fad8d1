package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidProfileType = errors.New("invalid profile type")
	ErrJobNotFound        = errors.New("job not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDepositCapExceeded = errors.New("allowed amount exceeded")
)
