package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-iam/meridian/internal/platform/httpx"
)

// Handler wires HTTP endpoints for tenant registration.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers tenant routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
}

type registerForm struct {
	TenantName    string `json:"tenant_name" validate:"required,max=120"`
	Slug          string `json:"slug" validate:"required,max=64,lowercase,excludesall= "`
	AdminName     string `json:"admin_name" validate:"required,max=120"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Register(r.Context(), RegisterInput{
		TenantName:    form.TenantName,
		Slug:          form.Slug,
		AdminName:     form.AdminName,
		AdminEmail:    form.AdminEmail,
		AdminPassword: form.AdminPassword,
	})
	if err != nil {
		h.logger.Warn("tenant registration failed", slog.String("slug", form.Slug), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}
