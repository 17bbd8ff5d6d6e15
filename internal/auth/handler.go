package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cookies   *CookieManager
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, cookies *CookieManager, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cookies:   cookies,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Login and
// registration carry a per-IP limiter as brute-force protection.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Error(w, http.StatusTooManyRequests, "Too many attempts, please try again later")
		}),
	)
	r.With(limiter).Post("/register", h.handleRegister)
	r.With(limiter).Post("/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type registerRequest struct {
	Name     string        `json:"name" validate:"required"`
	Email    string        `json:"email" validate:"required,email"`
	Password string        `json:"password" validate:"required,min=6"`
	Role     string        `json:"role" validate:"required,oneof=STUDENT EMPLOYER INSTITUTION GOV_ADMIN"`
	Profile  users.Profile `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, registerValidationMessage(err))
		return
	}
	role, ok := users.ParseRole(req.Role)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "Invalid role selected")
		return
	}

	user, token, err := h.service.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Profile:  req.Profile,
	})
	if err != nil {
		if !errors.Is(err, httpx.ErrDuplicateEmail) {
			h.logger.Error("register", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	h.cookies.Attach(w, token)
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, httpx.ErrInvalidCredentials) {
			h.logger.Error("login", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	h.cookies.Attach(w, token)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    UserFromContext(r.Context()),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// registerValidationMessage turns the first validation failure into the
// user-facing message, naming the offending field.
func registerValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request"
	}
	fe := fieldErrs[0]
	switch {
	case fe.Tag() == "required":
		return "Please provide name, email, password, and role"
	case fe.Field() == "Email":
		return "Please provide a valid email address"
	case fe.Field() == "Password":
		return "Password must be at least 6 characters"
	case fe.Field() == "Role":
		return "Invalid role selected"
	}
	return "Invalid request"
}
