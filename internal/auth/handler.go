package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect/internal/platform/httpx"
	"github.com/devconnect/devconnect/internal/platform/validate"
	"github.com/devconnect/devconnect/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	validator   *validate.Validator
	requireAuth func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, v *validate.Validator, requireAuth func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		validator:   v,
		requireAuth: requireAuth,
	}
}

// MountRoutes registers /register, /login and /me.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.With(h.requireAuth).Get("/me", h.handleMe)
}

// MountAPIRoutes registers the /api/users and /api/auth paths used by
// existing clients.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/users", h.handleRegister)
	r.Post("/auth", h.handleLogin)
	r.With(h.requireAuth).Get("/auth", h.handleMe)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank" msg:"Name is required"`
	Email    string `json:"email" validate:"email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=6" msg:"Please enter a password with 6 or more characters"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.Errors(w, http.StatusBadRequest, errs)
		return
	}

	token, err := h.service.Register(r.Context(), RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, "register", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.Errors(w, http.StatusBadRequest, errs)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, ErrNoToken)
		return
	}
	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("current user", slog.String("user_id", userID), slog.Any("error", err))
		httpx.ServerError(w)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
