package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard/marketplace-api/internal/auth"
	"github.com/gigboard/marketplace-api/internal/domain"
)

type stubSettlementService struct {
	job *domain.Job
	err error

	gotCaller *domain.Profile
	gotJobID  int64
}

func (s *stubSettlementService) PayJob(_ context.Context, caller *domain.Profile, jobID int64) (*domain.Job, error) {
	s.gotCaller = caller
	s.gotJobID = jobID
	if s.err != nil {
		return nil, s.err
	}
	return s.job, nil
}

type stubJobStore struct {
	jobs []domain.Job
	err  error
}

func (s *stubJobStore) ListUnpaidForProfile(context.Context, int64) ([]domain.Job, error) {
	return s.jobs, s.err
}

func testCaller() *domain.Profile {
	return &domain.Profile{
		ID:        1,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Type:      domain.ProfileTypeClient,
		Balance:   decimal.NewFromInt(100),
	}
}

func doPayRequest(t *testing.T, h *JobHandler, jobID string, caller *domain.Profile) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	router := chi.NewRouter()
	router.Post("/jobs/{job_id}/pay", h.Pay)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/jobs/%s/pay", jobID), nil)
	if caller != nil {
		req = req.WithContext(auth.ContextWithProfile(req.Context(), caller))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestPayHandler_Success(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubSettlementService{
		job: &domain.Job{
			ID:          42,
			ContractID:  7,
			Price:       decimal.NewFromInt(10),
			Paid:        true,
			PaymentDate: &now,
		},
	}
	h := NewJobHandler(&stubJobStore{}, svc)

	rec, resp := doPayRequest(t, h, "42", testCaller())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, int64(42), svc.gotJobID)
	assert.Equal(t, int64(1), svc.gotCaller.ID)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	job, ok := data["job"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, job["paid"])
}

func TestPayHandler_BusinessRejectionsUse200(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid profile type", domain.ErrInvalidProfileType, "INVALID_PROFILE_TYPE"},
		{"job not found", domain.ErrJobNotFound, "JOB_NOT_FOUND"},
		{"insufficient funds", domain.ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewJobHandler(&stubJobStore{}, &stubSettlementService{err: tc.err})

			rec, resp := doPayRequest(t, h, "42", testCaller())

			assert.Equal(t, http.StatusOK, rec.Code, "business rejections keep HTTP 200")
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestPayHandler_SystemFailureIsOpaque(t *testing.T) {
	h := NewJobHandler(&stubJobStore{}, &stubSettlementService{err: fmt.Errorf("PayJob: commit: connection reset")})

	rec, resp := doPayRequest(t, h, "42", testCaller())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection reset")
}

func TestPayHandler_NonNumericJobID(t *testing.T) {
	h := NewJobHandler(&stubJobStore{}, &stubSettlementService{})

	rec, resp := doPayRequest(t, h, "abc", testCaller())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "JOB_NOT_FOUND", resp.Error.Code)
}

func TestPayHandler_MissingProfile(t *testing.T) {
	h := NewJobHandler(&stubJobStore{}, &stubSettlementService{})

	rec, resp := doPayRequest(t, h, "42", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestListUnpaidHandler_EmptyIsNotFound(t *testing.T) {
	h := NewJobHandler(&stubJobStore{}, &stubSettlementService{})

	router := chi.NewRouter()
	router.Get("/jobs/unpaid", h.ListUnpaid)

	req := httptest.NewRequest(http.MethodGet, "/jobs/unpaid", nil)
	req = req.WithContext(auth.ContextWithProfile(req.Context(), testCaller()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
