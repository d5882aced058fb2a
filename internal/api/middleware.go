package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Saksham-w/askme/internal/token"
)

type contextKey int

const identityKey contextKey = iota

// Authenticate validates the bearer token and stores the decoded identity
// in the request context. The token is decoded once, at this boundary.
func Authenticate(tokens *token.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			identity, err := tokens.Parse(strings.TrimPrefix(header, prefix))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFrom extracts the authenticated identity placed by Authenticate.
func identityFrom(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(identityKey).(token.Identity)
	return id, ok
}
