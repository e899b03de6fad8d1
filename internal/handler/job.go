package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gigboard/marketplace-api/internal/auth"
	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/logging"
)

type jobStore interface {
	ListUnpaidForProfile(ctx context.Context, profileID int64) ([]domain.Job, error)
}

type settlementService interface {
	PayJob(ctx context.Context, caller *domain.Profile, jobID int64) (*domain.Job, error)
}

type JobHandler struct {
	jobs        jobStore
	settlements settlementService
}

func NewJobHandler(jobs jobStore, settlements settlementService) *JobHandler {
	return &JobHandler{jobs: jobs, settlements: settlements}
}

type jobDTO struct {
	ID          int64           `json:"id"`
	ContractID  int64           `json:"contract_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toJobDTO(j *domain.Job) jobDTO {
	return jobDTO{
		ID:          j.ID,
		ContractID:  j.ContractID,
		Description: j.Description,
		Price:       j.Price,
		Paid:        j.Paid,
		PaymentDate: j.PaymentDate,
		CreatedAt:   j.CreatedAt,
	}
}

type payJobResponse struct {
	Job jobDTO `json:"job"`
}

func (h *JobHandler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingProfile, nil)
		return
	}

	jobs, err := h.jobs.ListUnpaidForProfile(r.Context(), caller.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("unpaid job listing failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	if len(jobs) == 0 {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	dtos := make([]jobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = toJobDTO(&jobs[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *JobHandler) Pay(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	caller, ok := auth.ProfileFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingProfile, nil)
		return
	}

	jobID, err := strconv.ParseInt(chi.URLParam(r, "job_id"), 10, 64)
	if err != nil {
		RespondBusinessError(w, domain.ErrJobNotFound)
		return
	}

	job, err := h.settlements.PayJob(r.Context(), caller, jobID)
	if err != nil {
		log.Warn("job payment rejected", "job_id", jobID, "error", err)
		RespondBusinessError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, payJobResponse{Job: toJobDTO(job)})
}
