package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingProfile   = &AppError{http.StatusUnauthorized, "MISSING_PROFILE", "profile_id header required"}
	ErrUnknownProfile   = &AppError{http.StatusUnauthorized, "UNKNOWN_PROFILE", "No profile matches the profile_id header"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	// Business rejections ride on HTTP 200; the success flag and error code
	// carry the outcome.
	ErrInvalidProfileType = &AppError{http.StatusOK, "INVALID_PROFILE_TYPE", "invalid profile type"}
	ErrJobNotFound        = &AppError{http.StatusOK, "JOB_NOT_FOUND", "job not found"}
	ErrInsufficientFunds  = &AppError{http.StatusOK, "INSUFFICIENT_FUNDS", "insufficient funds"}
	ErrInvalidAmount      = &AppError{http.StatusOK, "INVALID_AMOUNT", "invalid amount"}
	ErrDepositCapExceeded = &AppError{http.StatusOK, "ALLOWED_AMOUNT_EXCEEDED", "allowed amount exceeded"}
)
