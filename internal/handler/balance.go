package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

type depositService interface {
	Deposit(ctx context.Context, targetProfileID int64, amount decimal.Decimal) (*domain.Profile, error)
}

type BalanceHandler struct {
	settlements depositService
}

func NewBalanceHandler(settlements depositService) *BalanceHandler {
	return &BalanceHandler{settlements: settlements}
}

type depositRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type profileDTO struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Profession string          `json:"profession"`
	Balance    decimal.Decimal `json:"balance"`
	Type       string          `json:"type"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toProfileDTO(p *domain.Profile) profileDTO {
	return profileDTO{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Profession: p.Profession,
		Balance:    p.Balance,
		Type:       string(p.Type),
		CreatedAt:  p.CreatedAt,
	}
}

func (h *BalanceHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		RespondBusinessError(w, domain.ErrInvalidProfileType)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if req.Amount == nil {
		RespondBusinessError(w, domain.ErrInvalidAmount)
		return
	}

	profile, err := h.settlements.Deposit(r.Context(), targetID, *req.Amount)
	if err != nil {
		log.Warn("deposit rejected", "profile_id", targetID, "error", err)
		RespondBusinessError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toProfileDTO(profile))
}
