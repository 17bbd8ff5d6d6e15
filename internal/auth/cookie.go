package auth

import (
	"net/http"
	"time"
)

// CookieName identifies the session cookie.
const CookieName = "token"

// CookieManager is the session transport. It carries the token between
// client and server as an httpOnly cookie. In production the cookie is
// Secure and SameSite=None so the SPA can send it cross-origin; in
// development it stays Lax so plain-HTTP localhost still works.
type CookieManager struct {
	ttl        time.Duration
	production bool
}

// NewCookieManager constructs a CookieManager.
func NewCookieManager(ttl time.Duration, production bool) *CookieManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &CookieManager{ttl: ttl, production: production}
}

// Attach sets the session cookie on the response.
func (c *CookieManager) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(c.ttl),
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
	})
}

// Clear overwrites the cookie with an empty value and a past expiry so the
// client drops it immediately.
func (c *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.production,
		SameSite: c.sameSite(),
	})
}

// Extract reads the token from the request. An absent cookie is a normal
// outcome, reported through ok rather than an error.
func (c *CookieManager) Extract(r *http.Request) (token string, ok bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *CookieManager) sameSite() http.SameSite {
	if c.production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
