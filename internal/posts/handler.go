package posts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect/internal/platform/httpx"
	"github.com/devconnect/devconnect/internal/platform/validate"
	"github.com/devconnect/devconnect/internal/shared"
)

// Handler exposes the feed under /api/posts. Every route requires a token.
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

// MountRoutes registers the post routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.requireAuth)
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Delete("/{id}", h.handleDelete)
	r.Put("/likes/{id}", h.handleLike)
	r.Put("/unlikes/{id}", h.handleUnlike)
	r.Post("/comment/{id}", h.handleComment)
	r.Delete("/comment/{id}/{comment_id}", h.handleUncomment)
}

type textRequest struct {
	Text string `json:"text" validate:"required,notblank" msg:"Text is required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	p, err := h.service.Create(r.Context(), userID, req.Text)
	if err != nil {
		h.fail(w, "create post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list posts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete post", err)
		return
	}
	httpx.Message(w, "Post removed")
}

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	likes, err := h.service.Like(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "like post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

func (h *Handler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	likes, err := h.service.Unlike(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "unlike post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, likes)
}

func (h *Handler) handleComment(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, _ := shared.UserIDFromContext(r.Context())
	comments, err := h.service.Comment(r.Context(), userID, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, "comment on post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
}

func (h *Handler) handleUncomment(w http.ResponseWriter, r *http.Request) {
	userID, _ := shared.UserIDFromContext(r.Context())
	comments, err := h.service.Uncomment(r.Context(), userID, chi.URLParam(r, "id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		h.fail(w, "delete comment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, comments)
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
