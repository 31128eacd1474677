package middleware

import (
	"net/http"

	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// RequireAuth rejects requests that carry no authenticated session.
// Mount it after Auth on route groups that never serve anonymous
// callers, so bad requests bounce before reaching a service.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.SessionFromCtx(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
