package auth_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shubhamshk/fraudBusters-App/internal/auth"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

func newAuthServer(t *testing.T) (*chi.Mux, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	cookies := auth.NewCookieManager(time.Hour, false)
	mw := auth.Middleware{Logger: testLogger(), Tokens: tokens, Cookies: cookies, Users: repo}
	handler := auth.NewHandler(testLogger(), auth.NewService(repo, tokens), cookies, mw)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		handler.MountRoutes(r)
	})
	return r, repo
}

func postJSON(t *testing.T, router http.Handler, path string, body map[string]any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestRegisterSuccess(t *testing.T) {
	router, _ := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
		"role":     "STUDENT",
	}, nil)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "STUDENT", resp.User["role"])
	require.Equal(t, "a@x.com", resp.User["email"])
	require.NotContains(t, resp.User, "password")
	require.NotContains(t, resp.User, "passwordHash")

	cookie := sessionCookie(t, rr)
	require.True(t, cookie.HttpOnly)
	require.NotEmpty(t, cookie.Value)
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	router, repo := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
		"role":     "STUDENT",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	stored, err := repo.FindByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.True(t, auth.CheckPassword("secret1", stored.PasswordHash))
}

func TestRegisterMissingRole(t *testing.T) {
	router, _ := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, decodeEnvelope(t, rr.Body).Message, "role")
}

func TestRegisterInvalidRole(t *testing.T) {
	router, _ := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
		"role":     "SUPERUSER",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Invalid role selected", decodeEnvelope(t, rr.Body).Message)
}

func TestRegisterShortPassword(t *testing.T) {
	router, _ := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "short",
		"role":     "STUDENT",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Password must be at least 6 characters", decodeEnvelope(t, rr.Body).Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := newAuthServer(t)

	payload := map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
		"role":     "STUDENT",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/auth/register", payload, nil).Code)

	rr := postJSON(t, router, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "User already exists with this email", decodeEnvelope(t, rr.Body).Message)
}

func TestLoginWrongPassword(t *testing.T) {
	router, repo := newAuthServer(t)
	hash, err := auth.HashPassword("correctpass")
	require.NoError(t, err)
	repo.seed(t, &users.User{ID: uuid.New(), Email: "a@x.com", Name: "A", PasswordHash: hash, Role: users.RoleStudent})

	rr := postJSON(t, router, "/api/auth/login", map[string]any{
		"email":    "a@x.com",
		"password": "wrongpass",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, rr.Body).Message)
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	router, _ := newAuthServer(t)

	rr := postJSON(t, router, "/api/auth/login", map[string]any{
		"email":    "nobody@x.com",
		"password": "whatever",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Invalid email or password", decodeEnvelope(t, rr.Body).Message)
}

func TestLoginStoreFailureIsNotUnauthorized(t *testing.T) {
	router, repo := newAuthServer(t)
	repo.findEmailErr = errors.New("connection reset")

	rr := postJSON(t, router, "/api/auth/login", map[string]any{
		"email":    "a@x.com",
		"password": "correctpass",
	}, nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Internal server error", decodeEnvelope(t, rr.Body).Message)
}

func TestLoginNormalizesEmail(t *testing.T) {
	router, repo := newAuthServer(t)
	hash, err := auth.HashPassword("correctpass")
	require.NoError(t, err)
	repo.seed(t, &users.User{ID: uuid.New(), Email: "a@x.com", Name: "A", PasswordHash: hash, Role: users.RoleStudent})

	rr := postJSON(t, router, "/api/auth/login", map[string]any{
		"email":    "  A@X.COM ",
		"password": "correctpass",
	}, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotEmpty(t, sessionCookie(t, rr).Value)
}

func TestMeWithoutCookie(t *testing.T) {
	router, _ := newAuthServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "Not authenticated", decodeEnvelope(t, rr.Body).Message)
}

func TestLogoutClearsSession(t *testing.T) {
	router, _ := newAuthServer(t)

	registered := postJSON(t, router, "/api/auth/register", map[string]any{
		"name":     "A",
		"email":    "a@x.com",
		"password": "secret1",
		"role":     "STUDENT",
	}, nil)
	require.Equal(t, http.StatusCreated, registered.Code)
	cookie := sessionCookie(t, registered)

	// Authenticated /me works with the cookie.
	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meReq.AddCookie(cookie)
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)
	require.Equal(t, http.StatusOK, meRes.Code)

	logout := postJSON(t, router, "/api/auth/logout", nil, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, logout.Code)
	cleared := sessionCookie(t, logout)
	require.Empty(t, cleared.Value)

	// The cleared cookie no longer authenticates.
	afterReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	afterReq.AddCookie(cleared)
	afterRes := httptest.NewRecorder()
	router.ServeHTTP(afterRes, afterReq)
	require.Equal(t, http.StatusUnauthorized, afterRes.Code)
}
