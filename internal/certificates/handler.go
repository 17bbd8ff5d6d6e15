package certificates

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shubhamshk/fraudBusters-App/internal/auth"
	"github.com/shubhamshk/fraudBusters-App/internal/platform/httpx"
	"github.com/shubhamshk/fraudBusters-App/internal/users"
)

// Handler wires the role-gated certificate endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers certificate routes. Every route requires an
// authenticated session; most also require a specific role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)

		r.With(h.mw.RequireRoles(users.RoleStudent, users.RoleEmployer)).
			Post("/verify", h.handleVerify)
		r.With(h.mw.RequireRoles(users.RoleEmployer)).
			Post("/bulk-verify", h.handleBulkVerify)
		r.With(h.mw.RequireRoles(users.RoleInstitution)).
			Post("/issue", h.handleIssue)
		r.With(h.mw.RequireRoles(users.RoleInstitution)).
			Put("/{id}/revoke", h.handleRevoke)
		r.With(h.mw.RequireRoles(users.RoleGovAdmin)).
			Get("/analytics", h.handleAnalytics)
		r.With(h.mw.RequireRoles(users.RoleGovAdmin)).
			Post("/blacklist", h.handleBlacklist)
		r.Get("/user-history", h.handleHistory)
	})
}

type verifyRequest struct {
	FileName   string `json:"fileName" validate:"required"`
	StorageKey string `json:"storageKey"`
}

type bulkVerifyRequest struct {
	Files []verifyRequest `json:"files" validate:"required,min=1,dive"`
}

type issueRequest struct {
	StudentName     string `json:"studentName" validate:"required"`
	CertificateType string `json:"certificateType" validate:"required"`
	StudentID       string `json:"studentId" validate:"required"`
	IssueDate       string `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
}

type blacklistRequest struct {
	Name   string `json:"name" validate:"required"`
	Type   string `json:"type" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Please provide a file reference")
		return
	}

	result, err := h.service.Verify(r.Context(), auth.UserFromContext(r.Context()), FileRef{
		FileName:   req.FileName,
		StorageKey: req.StorageKey,
	})
	if err != nil {
		h.logger.Error("verify certificate", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Certificate verification completed",
		"result":  result,
	})
}

func (h *Handler) handleBulkVerify(w http.ResponseWriter, r *http.Request) {
	var req bulkVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Please provide at least one file reference")
		return
	}

	refs := make([]FileRef, len(req.Files))
	for i, f := range req.Files {
		refs[i] = FileRef{FileName: f.FileName, StorageKey: f.StorageKey}
	}
	results, err := h.service.BulkVerify(r.Context(), auth.UserFromContext(r.Context()), refs)
	if err != nil {
		h.logger.Error("bulk verify", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Bulk verification failed")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Bulk verification completed",
		"results": results,
	})
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Please provide student name, certificate type, and student ID")
		return
	}

	cert, err := h.service.Issue(r.Context(), auth.UserFromContext(r.Context()), IssueInput{
		StudentName:     req.StudentName,
		CertificateType: req.CertificateType,
		StudentID:       req.StudentID,
		IssueDate:       req.IssueDate,
	})
	if err != nil {
		h.logger.Error("issue certificate", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Certificate issuance failed")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "Certificate issued successfully",
		"certificate": cert,
	})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Revoke(r.Context(), id); err != nil {
		h.logger.Warn("revoke certificate", slog.String("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Certificate revoked successfully",
	})
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Analytics(r.Context())
	if err != nil {
		h.logger.Error("analytics", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"analytics": snapshot,
	})
}

func (h *Handler) handleBlacklist(w http.ResponseWriter, r *http.Request) {
	var req blacklistRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Please provide name, type, and reason")
		return
	}

	entry, err := h.service.Blacklist(r.Context(), auth.UserFromContext(r.Context()), BlacklistInput{
		Name:       req.Name,
		EntityType: req.Type,
		Reason:     req.Reason,
	})
	if err != nil {
		h.logger.Error("blacklist entity", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to blacklist entity")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Entity added to blacklist successfully",
		"entry":   entry,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		h.logger.Error("user history", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	if history == nil {
		history = []VerificationRecord{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"history": history,
	})
}
