package auth

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
)

// Middleware rejects requests without an accepted bearer token with 401.
func Middleware(authz Authorizer, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ExtractBearerToken(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			actor, err := authz.Authorize(r.Context(), token)
			if err != nil {
				log.Warn().Str("path", r.URL.Path).Msg("rejected bearer token")
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
