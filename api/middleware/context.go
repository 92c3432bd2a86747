package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// Principal is the immutable per-request identity derived once from the
// access token. Every downstream authorization check reads this instead of
// re-parsing claims.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	Role     enums.UserRole
	Approved bool
}

// WithPrincipal injects the request principal into the context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the request principal, if one was set.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	principal, ok := ctx.Value(ctxPrincipal).(Principal)
	return principal, ok
}
