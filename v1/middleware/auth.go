package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/auth"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
	"github.com/gov-dx-sandbox/home-inventory/v1/services"
)

// LoginPath is where browser navigations without a session are sent
const LoginPath = "/auth/login"

// SessionVerifier validates a session token
type SessionVerifier interface {
	Verify(token string) (*models.SessionClaims, error)
}

// PrincipalResolver maps a session email to its user record
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, email string) (*models.User, error)
}

// SessionAuthMiddleware authenticates requests from the session cookie or a Bearer token
type SessionAuthMiddleware struct {
	verifier SessionVerifier
	resolver PrincipalResolver
}

// NewSessionAuthMiddleware creates the session authentication middleware
func NewSessionAuthMiddleware(verifier SessionVerifier, resolver PrincipalResolver) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{verifier: verifier, resolver: resolver}
}

// extractToken prefers the Authorization header over the session cookie
func extractToken(r *http.Request) string {
	const bearerPrefix = "Bearer "
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate verifies the session and resolves the user before calling next
func (m *SessionAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			RespondUnauthenticated(w, r)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			slog.Debug("Session verification failed", "error", err)
			RespondUnauthenticated(w, r)
			return
		}

		authUser := models.NewAuthenticatedUser(claims)
		if authUser.IsTokenExpired() {
			RespondUnauthenticated(w, r)
			return
		}

		user, err := m.resolver.ResolvePrincipal(r.Context(), authUser.Email)
		if err != nil {
			if services.IsUnauthenticatedError(err) {
				// A session whose user row is gone is treated like no session at all
				slog.Warn("Session principal not found", "error", err)
				RespondUnauthenticated(w, r)
				return
			}
			slog.Error("Failed to resolve session principal", "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, i18n.T(i18n.FromContext(r.Context()), "errors.internal"))
			return
		}

		ctx := WithAuthenticatedUser(r.Context(), authUser)
		ctx = WithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// wantsHTML reports whether the client is a browser navigation
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// RespondUnauthenticated redirects browsers to sign in and answers API clients with 401
func RespondUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	utils.RespondWithError(w, http.StatusUnauthorized, i18n.T(i18n.FromContext(r.Context()), "errors.unauthorized"))
}
