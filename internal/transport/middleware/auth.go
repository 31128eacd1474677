package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

type tokenParser interface {
	ValidateAccessToken(tokenString string) (int64, domain.Role, uuid.UUID, error)
}

type sessionChecker interface {
	ValidateSession(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
}

// Auth validates the bearer token and resolves the backing session.
// Requests without a token pass through anonymously; services reject
// them when the operation needs an identity. A present but invalid
// token, or a revoked/expired session, is a hard 401.
func Auth(tokens tokenParser, sessions sessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			accountID, role, sessionID, err := tokens.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			sess, err := sessions.ValidateSession(r.Context(), sessionID)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if sess.AccountID != accountID {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			// The sessions table stores no role; the signed token claim
			// is the authority for the session's lifetime.
			sess.Role = role
			ctx := ctxutil.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
