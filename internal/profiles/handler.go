package profiles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect/internal/platform/httpx"
	"github.com/devconnect/devconnect/internal/platform/validate"
	"github.com/devconnect/devconnect/internal/shared"
)

// Handler exposes profile endpoints under /api/profile.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	validator   *validate.Validator
	requireAuth func(http.Handler) http.Handler
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, v *validate.Validator, requireAuth func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: v, requireAuth: requireAuth}
}

// MountRoutes registers the profile routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/user/{user_id}", h.handleByUser)
	r.Get("/github/{username}", h.handleGitHub)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/me", h.handleMine)
		r.Post("/", h.handleUpsert)
		r.Delete("/", h.handleDeleteAccount)
		r.Put("/experience", h.handleAddExperience)
		r.Delete("/experience/{exp_id}", h.handleRemoveExperience)
		r.Put("/education", h.handleAddEducation)
		r.Delete("/education/{edu_id}", h.handleRemoveEducation)
	})
}

type profileRequest struct {
	Status         string `json:"status" validate:"required,notblank" msg:"Status is required"`
	Skills         string `json:"skills" validate:"required,notblank" msg:"Skills are required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title" validate:"required,notblank" msg:"Title is required"`
	Company     string `json:"company" validate:"required,notblank" msg:"Company name is required"`
	From        string `json:"from" validate:"required,notblank" msg:"From date is required"`
	Location    string `json:"location"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school" validate:"required,notblank" msg:"School is required"`
	Degree       string `json:"degree" validate:"required,notblank" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required,notblank" msg:"Field of study is required"`
	From         string `json:"from" validate:"required,notblank" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.Mine(r.Context(), userID)
	if err != nil {
		h.fail(w, "get own profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list profiles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ByUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		h.fail(w, "get profile by user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.Upsert(r.Context(), userID, UpsertInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Social: Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		h.fail(w, "upsert profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		h.fail(w, "delete account", err)
		return
	}
	httpx.Message(w, "User Deleted")
}

func (h *Handler) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.AddExperience(r.Context(), userID, Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, "add experience", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.RemoveExperience(r.Context(), userID, chi.URLParam(r, "exp_id"))
	if err != nil {
		h.fail(w, "remove experience", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.AddEducation(r.Context(), userID, Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.fail(w, "add education", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.RemoveEducation(r.Context(), userID, chi.URLParam(r, "edu_id"))
	if err != nil {
		h.fail(w, "remove education", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleGitHub(w http.ResponseWriter, r *http.Request) {
	repos, err := h.service.GitHubRepos(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, "github repos", err)
		return
	}
	httpx.JSON(w, http.StatusOK, repos)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	if errs := h.validator.Struct(req); errs != nil {
		httpx.Errors(w, http.StatusBadRequest, errs)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
