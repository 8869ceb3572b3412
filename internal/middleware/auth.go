package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"mixerai/internal/auth"
	"mixerai/internal/httputil"
)

// Auth verifies the Supabase bearer token and stashes the authenticated
// user id in the request context for handlers.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token verification failed",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			// Supabase subjects are the auth.users uuid; anything else
			// is a token this service cannot act on.
			userID, err := uuid.Parse(claims.GetUserID())
			if err != nil {
				logger.Debug("token subject is not a uuid",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
