package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/mbolis/formcraft/httpx"
	"github.com/mbolis/formcraft/log"
)

type userKey struct{}

// Auth middleware to require a valid bearer token. The token's subject is the
// caller's user id.
func Auth(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return chi.Chain(jwtauth.Verifier(ja), authenticated).Handler
}

func authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			httpx.LogStatusMsg(w, r, http.StatusUnauthorized, log.DebugLevel, "auth.verify", "Unauthorized: %s", err)
			return
		}
		if token == nil || token.Subject() == "" {
			httpx.LogStatusMsg(w, r, http.StatusUnauthorized, log.DebugLevel, "auth.subject", "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userKey{}, token.Subject())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated caller, or "" outside Auth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
