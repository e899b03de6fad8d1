package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gigboard/marketplace-api/internal/auth"
	"github.com/gigboard/marketplace-api/internal/domain"
	"github.com/gigboard/marketplace-api/internal/handler"
	"github.com/gigboard/marketplace-api/internal/logging"
)

const profileIDHeader = "profile_id"

type profileStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
}

// ResolveProfile loads the caller's profile from the profile_id header and
// stores it in the request context. Requests without a resolvable profile are
// rejected before any handler runs.
func ResolveProfile(profiles profileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(profileIDHeader)
			if raw == "" {
				handler.RespondAppError(w, handler.ErrMissingProfile, nil)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				handler.RespondAppError(w, handler.ErrUnknownProfile, nil)
				return
			}

			profile, err := profiles.GetByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, domain.ErrProfileNotFound) {
					logging.FromContext(r.Context()).Error("profile resolution failed", "error", err)
					handler.RespondAppError(w, handler.ErrInternalError, nil)
					return
				}
				handler.RespondAppError(w, handler.ErrUnknownProfile, nil)
				return
			}

			ctx := auth.ContextWithProfile(r.Context(), profile)
			ctx = EnrichLogger(ctx, "profile_id", profile.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
