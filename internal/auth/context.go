package auth

import "context"

type contextKey string

const (
	// UserClaimsKey is the context key for user claims.
	UserClaimsKey = contextKey("userClaims")

	identityKey = contextKey("requestIdentity")
)

// Identity holds the resolved username for the current request. The access
// logger places a pointer to it in the request context before authentication
// runs; the auth middleware fills it in once the caller is resolved. The
// association dies with the request context, so a reused execution context
// can never observe a previous request's identity.
type Identity struct {
	Username string
}

// NewIdentityContext returns a child context carrying a fresh Identity,
// along with the Identity itself.
func NewIdentityContext(ctx context.Context) (context.Context, *Identity) {
	ident := &Identity{}
	return context.WithValue(ctx, identityKey, ident), ident
}

// IdentityFromContext returns the request Identity, or nil outside a request.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}

// ClaimsFromContext returns the authenticated caller's claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// ActorFromContext resolves the username to attribute a mutation to. When
// no authenticated caller is attached to the context it falls back to the
// "system" sentinel.
func ActorFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Username
	}
	return "system"
}
