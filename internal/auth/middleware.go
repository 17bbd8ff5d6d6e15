package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// Middleware wires the authentication and authorization gates.
type Middleware struct {
	Logger  *slog.Logger
	Tokens  *TokenIssuer
	Cookies *CookieManager
	Users   users.Repository
}

// Authenticate extracts the session token from the cookie, verifies it,
// loads the matching user and attaches it to the request context. Every
// failure rejects the request; nothing is retried.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.Cookies.Extract(r)
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := m.Tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrExpiredToken):
				httpx.Error(w, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, ErrInvalidToken):
				httpx.Error(w, http.StatusUnauthorized, "Invalid token")
			default:
				m.logError("verify token", err)
				httpx.Error(w, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		user, err := m.Users.FindByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, httpx.ErrNotFound) {
				httpx.Error(w, http.StatusUnauthorized, "User no longer exists")
				return
			}
			m.logError("load user", err)
			httpx.Error(w, http.StatusInternalServerError, "Authentication error")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireRoles gates a route on an allow-list of roles. It must run after
// Authenticate; without an identity the request fails 401. A role outside
// the allow-list fails 403 with a message naming the denied role.
func (m Middleware) RequireRoles(roles ...users.Role) func(http.Handler) http.Handler {
	allowed := make(map[users.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpx.Error(w, http.StatusUnauthorized, "Login required")
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				httpx.Error(w, http.StatusForbidden, fmt.Sprintf("Access denied for role %s", user.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) logError(msg string, err error) {
	if m.Logger != nil {
		m.Logger.Error(msg, slog.Any("error", err))
	}
}
