package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gigboard/marketplace-api/internal/auth"
	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

type contractStore interface {
	GetByIDForProfile(ctx context.Context, id, profileID int64) (*domain.Contract, error)
	ListActiveForProfile(ctx context.Context, profileID int64) ([]domain.Contract, error)
}

type ContractHandler struct {
	contracts contractStore
}

func NewContractHandler(contracts contractStore) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type contractDTO struct {
	ID           int64     `json:"id"`
	ClientID     int64     `json:"client_id"`
	ContractorID int64     `json:"contractor_id"`
	Terms        string    `json:"terms"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toContractDTO(c *domain.Contract) contractDTO {
	return contractDTO{
		ID:           c.ID,
		ClientID:     c.ClientID,
		ContractorID: c.ContractorID,
		Terms:        c.Terms,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingProfile, nil)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	c, err := h.contracts.GetByIDForProfile(r.Context(), id, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrResourceNotFound, nil)
			return
		}
		logging.FromContext(r.Context()).Error("contract lookup failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, toContractDTO(c))
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingProfile, nil)
		return
	}

	contracts, err := h.contracts.ListActiveForProfile(r.Context(), caller.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("contract listing failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	if len(contracts) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	dtos := make([]contractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = toContractDTO(&contracts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
