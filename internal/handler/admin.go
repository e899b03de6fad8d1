package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

const defaultBestClientsLimit = 2

type reportStore interface {
	BestProfession(ctx context.Context, start, end time.Time) (*domain.ProfessionEarnings, error)
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]domain.ClientSpend, error)
}

type AdminHandler struct {
	reports reportStore
}

func NewAdminHandler(reports reportStore) *AdminHandler {
	return &AdminHandler{reports: reports}
}

type bestProfessionDTO struct {
	Profession  string          `json:"profession"`
	TotalEarned decimal.Decimal `json:"totalEarned"`
}

type bestClientDTO struct {
	ID       int64           `json:"id"`
	FullName string          `json:"fullName"`
	Paid     decimal.Decimal `json:"paid"`
}

func (h *AdminHandler) BestProfession(w http.ResponseWriter, r *http.Request) {
	start, end, fields := parseWindow(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	pe, err := h.reports.BestProfession(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrResourceNotFound, nil)
			return
		}
		logging.FromContext(r.Context()).Error("best profession query failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, bestProfessionDTO{
		Profession:  pe.Profession,
		TotalEarned: pe.TotalEarned,
	})
}

func (h *AdminHandler) BestClients(w http.ResponseWriter, r *http.Request) {
	start, end, fields := parseWindow(r)

	limit := defaultBestClientsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, FieldError{Field: "limit", Message: "must be a positive integer"})
		} else {
			limit = n
		}
	}

	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	clients, err := h.reports.BestClients(r.Context(), start, end, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("best clients query failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	dtos := make([]bestClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = bestClientDTO{ID: c.ID, FullName: c.FullName, Paid: c.Paid}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

// parseWindow validates the start/end query parameters into a typed date
// range before any query is built.
func parseWindow(r *http.Request) (start, end time.Time, fields []FieldError) {
	q := r.URL.Query()

	start, err := parseDate(q.Get("start"))
	if err != nil {
		fields = append(fields, FieldError{Field: "start", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"})
	}

	end, err = parseDate(q.Get("end"))
	if err != nil {
		fields = append(fields, FieldError{Field: "end", Message: "must be an RFC3339 timestamp or YYYY-MM-DD date"})
	}

	if len(fields) == 0 && end.Before(start) {
		fields = append(fields, FieldError{Field: "end", Message: "must not be before start"})
	}

	return start, end, fields
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
