package auth

import (
	"context"
	"time"
)

// Identity represents an authenticated caller.
type Identity struct {
	// Principal is the token subject.
	Principal string

	Roles []string

	ExpiresAt time.Time
	IssuedAt  time.Time
}

func (id *Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type contextKey int

const identityKey contextKey = iota

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}
