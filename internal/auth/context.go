// Package auth carries the resolved caller profile through request context.
// Resolution itself happens in the profile middleware; handlers and services
// only ever see the loaded domain.Profile.
package auth

import (
	"context"

	"github.com/gigboard/marketplace-api/internal/domain"
)

type profileKey struct{}

func ContextWithProfile(ctx context.Context, p *domain.Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

func ProfileFromContext(ctx context.Context) (*domain.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(*domain.Profile)
	return p, ok
}
