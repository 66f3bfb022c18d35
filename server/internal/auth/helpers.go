package auth

import (
	"context"
	"net/http"
	"strings"
)

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	// Expect "Bearer <token>" format
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedHeader
	}

	return strings.TrimSpace(parts[1]), nil
}

type ctxKey struct{}

// WithActor stores the authorised actor on ctx.
func WithActor(ctx context.Context, a *ActorInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom returns the actor stored by the auth middleware, if any.
func ActorFrom(ctx context.Context) (*ActorInfo, bool) {
	a, ok := ctx.Value(ctxKey{}).(*ActorInfo)
	return a, ok
}
