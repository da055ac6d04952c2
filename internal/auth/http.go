// ABOUTME: HTTP middleware for JWT authentication on API endpoints
// ABOUTME: Extracts the bearer token, verifies it, and resolves the user into context

package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/opsdesk/internal/store"
)

// unauthorizedBody is the uniform 401 payload. Every token failure class and
// the missing-user case produce this exact response so that callers cannot
// distinguish them (anti-enumeration); the specific reason is only logged.
const unauthorizedBody = `{"error":"could not validate credentials"}`

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// unauthorized terminates the request with the uniform 401 response.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}

// Middleware creates an HTTP middleware that extracts and validates JWT
// bearer tokens. On success it resolves the token subject against the user
// store and attaches an Identity to the request context; on any failure it
// short-circuits with 401 before the handler body runs. There is no retry
// logic: every failure is terminal for the request.
func Middleware(users store.UserStore, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				logger.Debug("request rejected", "path", r.URL.Path, "reason", errMsg)
				unauthorized(w)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				// Classification stays internal
				logger.Debug("token rejected", "path", r.URL.Path, "reason", err)
				unauthorized(w)
				return
			}

			user, err := users.GetUserByUsername(r.Context(), subject)
			if err != nil {
				// "token valid but user deleted" is indistinguishable from
				// any other auth failure on the wire
				logger.Debug("subject lookup failed", "path", r.URL.Path, "subject", subject, "reason", err)
				unauthorized(w)
				return
			}

			if user.Disabled {
				logger.Debug("disabled user rejected", "path", r.URL.Path, "username", user.Username)
				unauthorized(w)
				return
			}

			ident := &Identity{
				Username: user.Username,
				FullName: user.FullName,
				Email:    user.Email,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}
